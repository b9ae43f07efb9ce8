package config

// DefaultDenylistDomains returns sensitive domains (banking, password
// managers, healthcare, identity providers and the like) dropped from read
// results when filter.exclude_sensitive is set. Subdomains match too.
func DefaultDenylistDomains() []string {
	return []string{
		// Banking and payments
		"chase.com",
		"bankofamerica.com",
		"wellsfargo.com",
		"capitalone.com",
		"schwab.com",
		"fidelity.com",
		"paypal.com",
		"venmo.com",

		// Password managers
		"1password.com",
		"lastpass.com",
		"bitwarden.com",
		"dashlane.com",

		// Sign-in pages
		"accounts.google.com",
		"login.microsoftonline.com",
		"login.live.com",
		"okta.com",
		"auth0.com",

		// Health
		"mychart.com",
		"kp.org",
		"healthcare.gov",

		// Tax and government identity
		"irs.gov",
		"ssa.gov",
		"login.gov",
		"id.me",

		// Crypto exchanges
		"coinbase.com",
		"kraken.com",
	}
}
