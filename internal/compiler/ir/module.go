package ir

// GlobalConstant is a module-level constant value (e.g. a struct default
// or an enum discriminant table) that outlives any single function.
type GlobalConstant struct {
	Name  string
	Type  Type
	Value Value
}

// Module is the top-level IR unit produced by lowering one compilation
// job's Program (spec.md 3). String constants are interned per module,
// matching spec.md 3's lifecycle note.
type Module struct {
	Name            string
	Functions       []*Function
	StringTable     []string
	GlobalConstants []GlobalConstant

	stringIndex map[string]int
	funcIndex   map[string]int
}

func NewModule(name string) *Module {
	return &Module{Name: name, stringIndex: map[string]int{}, funcIndex: map[string]int{}}
}

// InternString returns the id of s in the module's string table,
// creating an entry if this is the first occurrence (spec.md 6: "String
// constants: @str.<N> = ...").
func (m *Module) InternString(s string) int {
	if m.stringIndex == nil {
		m.stringIndex = map[string]int{}
	}
	if id, ok := m.stringIndex[s]; ok {
		return id
	}
	id := len(m.StringTable)
	m.StringTable = append(m.StringTable, s)
	m.stringIndex[s] = id
	return id
}

func (m *Module) AddFunction(f *Function) {
	if m.funcIndex == nil {
		m.funcIndex = map[string]int{}
	}
	if _, exists := m.funcIndex[f.Name]; !exists {
		m.funcIndex[f.Name] = len(m.Functions)
		m.Functions = append(m.Functions, f)
		return
	}
	m.Functions[m.funcIndex[f.Name]] = f
}

func (m *Module) Function(name string) (*Function, bool) {
	idx, ok := m.funcIndex[name]
	if !ok {
		return nil, false
	}
	return m.Functions[idx], true
}

func (m *Module) AddGlobalConstant(gc GlobalConstant) {
	m.GlobalConstants = append(m.GlobalConstants, gc)
}

// Validate checks every function in the module against spec.md 3's IR
// invariants.
func (m *Module) Validate() error {
	for _, f := range m.Functions {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}
