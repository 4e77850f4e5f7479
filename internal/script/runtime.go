// Package script defines the execution context author scripts run against:
// the Runtime seam between standalone preview and a live calculation
// instance, the Mock runtime backed by test-case variables, and the Context
// facade the sandbox hands to scripts as `me`.
package script

// Runtime is the surface the production clinical-calculation object exposes
// to scripts. Standalone preview uses Mock; when the editor is wired to a
// live calculation instance, that instance is passed through unmodified as
// a Runtime and the evaluator never knows the difference.
type Runtime interface {
	// GetValue returns the value for a clinical variable as display text.
	// Numbers are formatted with trailing zeros and a dangling decimal
	// point stripped. Absent keys read as "0".
	GetValue(key string) string

	// GetNumber returns the numeric value for a variable, 0 when absent
	// or non-numeric.
	GetNumber(key string) float64

	// Format rounds v to the given precision and strips trailing zeros.
	Format(v float64, precision int) string

	// El returns a legacy element wrapper scoped to the variable backing
	// the selector (a leading '#' is ignored).
	El(selector string) *Element

	// Pref looks up a preference label or threshold, returning def when
	// the key is unknown.
	Pref(key, def string) string

	// Recalculate is a production hook; a no-op outside a live instance.
	Recalculate()

	// ConvertUnits is a production hook; outside a live instance it
	// returns v unchanged.
	ConvertUnits(v float64, from, to string) float64

	// InstanceID identifies this runtime invocation.
	InstanceID() string
}

// Context is the concrete object scripts receive as `me`. It delegates to
// whichever Runtime was selected; scripts never see the seam.
type Context struct {
	rt Runtime
}

// NewContext wraps a runtime for script consumption.
func NewContext(rt Runtime) *Context { return &Context{rt: rt} }

func (c *Context) GetValue(key string) string     { return c.rt.GetValue(key) }
func (c *Context) GetNumber(key string) float64   { return c.rt.GetNumber(key) }
func (c *Context) Format(v float64, p int) string { return c.rt.Format(v, p) }
func (c *Context) El(selector string) *Element    { return c.rt.El(selector) }
func (c *Context) Pref(key, def string) string    { return c.rt.Pref(key, def) }
func (c *Context) Recalculate()                   { c.rt.Recalculate() }
func (c *Context) InstanceID() string             { return c.rt.InstanceID() }

func (c *Context) ConvertUnits(v float64, from, to string) float64 {
	return c.rt.ConvertUnits(v, from, to)
}
