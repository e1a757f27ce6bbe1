// Package records is the mock patient record store behind the ward roster.
//
// Patients are generated deterministically from a seed and their position in
// the census, so a given (seed, index) pair always yields the same record and
// pages can be fetched in any order.
package records

import (
	"fmt"
	"strings"
	"time"
)

// Acuity grades how much nursing attention a patient needs.
type Acuity int

const (
	AcuityLow Acuity = iota
	AcuityModerate
	AcuityHigh
	AcuityCritical
)

func (a Acuity) String() string {
	switch a {
	case AcuityLow:
		return "low"
	case AcuityModerate:
		return "moderate"
	case AcuityHigh:
		return "high"
	case AcuityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Patient is one admitted patient.
type Patient struct {
	MRN       string
	Name      string
	Age       int
	Sex       string
	Ward      string
	Bed       string
	Acuity    Acuity
	Attending string
	Admitted  time.Time
	Alerts    []string
	Allergies []string
	Notes     string
}

// Location returns the ward and bed, e.g. "Cardiology 12B".
func (p Patient) Location() string {
	return p.Ward + " " + p.Bed
}

// Chart renders the patient's chart summary as markdown.
func Chart(p Patient) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "**MRN** %s · **Age** %d · **Sex** %s\n\n", p.MRN, p.Age, p.Sex)
	fmt.Fprintf(&b, "- Location: %s\n", p.Location())
	fmt.Fprintf(&b, "- Acuity: %s\n", p.Acuity)
	fmt.Fprintf(&b, "- Attending: %s\n", p.Attending)
	fmt.Fprintf(&b, "- Admitted: %s\n\n", p.Admitted.Format("2006-01-02 15:04"))

	b.WriteString("## Alerts\n\n")
	writeList(&b, p.Alerts)
	b.WriteString("## Allergies\n\n")
	writeList(&b, p.Allergies)

	if p.Notes != "" {
		b.WriteString("## Nursing notes\n\n")
		b.WriteString(p.Notes)
		b.WriteString("\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("_None recorded._\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
