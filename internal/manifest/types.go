package manifest

// Wildcard is the version constraint meaning "any version".
const Wildcard = "*"

// Requirement is one npm package to install.
type Requirement struct {
	Name    string
	Version string
	// Positional is set for bare package names declared without a
	// constraint (array entries). Their version is always Wildcard.
	Positional bool
}

// Constraint returns the version constraint, defaulting to Wildcard.
func (r Requirement) Constraint() string {
	if r.Positional || r.Version == "" {
		return Wildcard
	}
	return r.Version
}

// Requirements is an insertion-ordered set of requirements keyed by package
// name. The zero value is ready to use.
type Requirements struct {
	items []Requirement
	index map[string]int
}

// NewRequirements builds a Requirements from reqs, in order.
func NewRequirements(reqs ...Requirement) *Requirements {
	r := &Requirements{}
	for _, req := range reqs {
		r.Set(req)
	}
	return r
}

// Set adds req. A requirement with the same name is replaced in place, so
// the first position is kept and the last value wins.
func (r *Requirements) Set(req Requirement) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[req.Name]; ok {
		r.items[i] = req
		return
	}
	r.index[req.Name] = len(r.items)
	r.items = append(r.items, req)
}

// Merge sets every requirement of other into r.
func (r *Requirements) Merge(other *Requirements) {
	if other == nil {
		return
	}
	for _, req := range other.items {
		r.Set(req)
	}
}

// Len returns the number of requirements.
func (r *Requirements) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Get returns the requirement for name.
func (r *Requirements) Get(name string) (Requirement, bool) {
	if r == nil {
		return Requirement{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Requirement{}, false
	}
	return r.items[i], true
}

// Items returns a copy of the requirements in order.
func (r *Requirements) Items() []Requirement {
	if r == nil {
		return nil
	}
	out := make([]Requirement, len(r.items))
	copy(out, r.items)
	return out
}

// Names returns the package names in order.
func (r *Requirements) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.items))
	for i, req := range r.items {
		names[i] = req.Name
	}
	return names
}

// Filter returns a new Requirements holding the entries keep accepts.
func (r *Requirements) Filter(keep func(Requirement) bool) *Requirements {
	out := &Requirements{}
	if r == nil {
		return out
	}
	for _, req := range r.items {
		if keep(req) {
			out.Set(req)
		}
	}
	return out
}

// Confirmation pairs a package with the reason shown when asking the user
// whether to install it.
type Confirmation struct {
	Package string
	Message string
}

// Confirmations is an insertion-ordered set of confirmation entries keyed by
// package name. The zero value is ready to use.
type Confirmations struct {
	items []Confirmation
	index map[string]int
}

// NewConfirmations builds a Confirmations from entries, in order.
func NewConfirmations(entries ...Confirmation) *Confirmations {
	c := &Confirmations{}
	for _, e := range entries {
		c.Set(e)
	}
	return c
}

// Set adds or replaces the entry for e.Package.
func (c *Confirmations) Set(e Confirmation) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[e.Package]; ok {
		c.items[i] = e
		return
	}
	c.index[e.Package] = len(c.items)
	c.items = append(c.items, e)
}

// Merge sets every entry of other into c.
func (c *Confirmations) Merge(other *Confirmations) {
	if other == nil {
		return
	}
	for _, e := range other.items {
		c.Set(e)
	}
}

// Len returns the number of entries.
func (c *Confirmations) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of the entries in order.
func (c *Confirmations) Items() []Confirmation {
	if c == nil {
		return nil
	}
	out := make([]Confirmation, len(c.items))
	copy(out, c.items)
	return out
}
