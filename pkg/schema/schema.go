package schema

// FieldType declares the value shape a field accepts.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeStringList FieldType = "string_list"
	TypeTable      FieldType = "table"
	TypeEnum       FieldType = "enum"
)

// FieldSpec describes a single field inside a document section.
type FieldSpec struct {
	Path     string    `json:"path"` // "section.field"
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Prompt   string    `json:"prompt"`            // default question asked when the field is missing
	Options  []string  `json:"options,omitempty"` // allowed values for TypeEnum
}

// Section groups fields. Order matters: completion prompts walk sections
// and fields in declaration order.
type Section struct {
	Name   string      `json:"name"`
	Label  string      `json:"label"`
	Fields []FieldSpec `json:"fields"`
}

// DocumentSchema is the full field layout for one document type.
// Schemas are built once at startup and never mutated afterwards.
type DocumentSchema struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`

	byPath map[string]*FieldSpec
}

func newDocumentSchema(docType, title, description string, sections []Section) *DocumentSchema {
	s := &DocumentSchema{
		Type:        docType,
		Title:       title,
		Description: description,
		Sections:    sections,
		byPath:      make(map[string]*FieldSpec),
	}
	for i := range s.Sections {
		sec := &s.Sections[i]
		for j := range sec.Fields {
			f := &sec.Fields[j]
			s.byPath[f.Path] = f
		}
	}
	return s
}

// Field resolves a field path against the schema.
func (s *DocumentSchema) Field(path string) (*FieldSpec, bool) {
	f, ok := s.byPath[path]
	return f, ok
}

// RequiredPaths returns all required field paths in schema order.
func (s *DocumentSchema) RequiredPaths() []string {
	var paths []string
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.Required {
				paths = append(paths, f.Path)
			}
		}
	}
	return paths
}

// SectionNames returns section names in schema order.
func (s *DocumentSchema) SectionNames() []string {
	names := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		names[i] = sec.Name
	}
	return names
}
