package chat

import "time"

// Persona selects the behavioral profile used when prompting the model.
// It affects future turns only, never stored history.
type Persona string

const (
	PersonaStandard  Persona = "standard"
	PersonaCoding    Persona = "coding"
	PersonaTeacher   Persona = "teacher"
	PersonaMotivator Persona = "motivator"
	PersonaCreative  Persona = "creative"
)

// Personas lists every selectable persona in display order.
func Personas() []Persona {
	return []Persona{PersonaStandard, PersonaCoding, PersonaTeacher, PersonaMotivator, PersonaCreative}
}

// Valid reports whether the persona is one of the known values.
func (p Persona) Valid() bool {
	switch p {
	case PersonaStandard, PersonaCoding, PersonaTeacher, PersonaMotivator, PersonaCreative:
		return true
	}
	return false
}

// Session is one named conversation. Messages are kept in append order,
// which is authoritative over timestamps.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	Persona   Persona   `json:"persona"`
}
