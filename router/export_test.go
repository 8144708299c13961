package router

// Match exposes Pattern.match for tests.
func (p *Pattern) Match(path string) (map[string]string, int, bool) {
	return p.match(path)
}
