package discovery

// Pattern locates history databases of one browser on one operating system.
// Glob is relative to the user's home directory unless it is absolute.
type Pattern struct {
	Browser string `yaml:"browser"`
	OS      string `yaml:"os"`
	Glob    string `yaml:"glob"`
}

// Databases is the result of a discovery run: for each browser display
// name, the history database files found, one per profile.
type Databases struct {
	names []string
	paths map[string][]string
}

// NewDatabases builds a Databases from an explicit name->paths mapping.
// Names keep the given order; names missing from paths have zero paths.
func NewDatabases(names []string, paths map[string][]string) *Databases {
	d := &Databases{paths: make(map[string][]string, len(names))}
	for _, n := range names {
		d.add(n, paths[n]...)
	}
	return d
}

func (d *Databases) add(name string, paths ...string) {
	if _, ok := d.paths[name]; !ok {
		d.names = append(d.names, name)
	}
	d.paths[name] = append(d.paths[name], paths...)
}

// Names returns every browser that has patterns for the current system, in
// pattern order, including browsers with no database found.
func (d *Databases) Names() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.names...)
}

// Paths returns the database files for name. An unknown name has zero
// paths; this is not an error.
func (d *Databases) Paths(name string) []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.paths[name]...)
}

// Len returns the total number of database files found.
func (d *Databases) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, p := range d.paths {
		n += len(p)
	}
	return n
}
