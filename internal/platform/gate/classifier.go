package gate

import "strings"

// DefaultProtectedPrefixes are the path prefixes that require a signed-in visitor.
var DefaultProtectedPrefixes = []string{"/invoices", "/purchase-invoices", "/sales"}

// Classifier decides whether a request path requires authentication.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	prefixes []string
	all      bool
}

// NewClassifier builds a Classifier from prefixes. A trailing "/" on a prefix is
// dropped and empty entries are skipped. The prefix "/" protects every path.
// With no prefixes at all DefaultProtectedPrefixes is used.
func NewClassifier(prefixes ...string) *Classifier {
	if len(prefixes) == 0 {
		prefixes = DefaultProtectedPrefixes
	}
	cl := &Classifier{}
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == "/" {
			cl.all = true
			continue
		}
		cl.prefixes = append(cl.prefixes, strings.TrimSuffix(p, "/"))
	}
	return cl
}

// IsProtected reports whether path is one of the prefixes or lies beneath one.
// Matching is case-sensitive and segment-aware: "/invoices" and "/invoices/3"
// match the prefix "/invoices", "/invoices-archive" does not.
func (cl *Classifier) IsProtected(path string) bool {
	if cl.all {
		return true
	}
	for _, p := range cl.prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the normalised prefix set.
func (cl *Classifier) Prefixes() []string {
	out := make([]string, 0, len(cl.prefixes)+1)
	if cl.all {
		out = append(out, "/")
	}
	return append(out, cl.prefixes...)
}
