package records

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrOutOfRange is returned for negative offsets, non-positive page sizes and
// indices outside the census.
var ErrOutOfRange = errors.New("record index out of range")

// censusEpoch anchors generated admission times so output is reproducible.
var censusEpoch = time.Date(2026, time.January, 5, 7, 0, 0, 0, time.UTC)

var (
	givenNames = []string{
		"Amara", "Bogdan", "Chen", "Dolores", "Emeka", "Fatima", "Gustav", "Hana",
		"Ioana", "Jamal", "Keiko", "Lars", "Mireille", "Nikhil", "Olusegun", "Priya",
		"Quentin", "Rosa", "Sven", "Tamsin", "Umar", "Vera", "Wen", "Yusuf", "Zofia",
	}
	familyNames = []string{
		"Abara", "Byrne", "Castellanos", "Dubois", "Eriksen", "Fontaine", "Garza",
		"Haddad", "Ishikawa", "Jankowski", "Kowalczyk", "Lindqvist", "Moreau",
		"Nakamura", "Okafor", "Petrov", "Quinn", "Rahman", "Santos", "Takahashi",
	}
	wards = []string{
		"Cardiology", "Oncology", "Orthopaedics", "Neurology", "Respiratory",
		"General Surgery", "Paediatrics", "Geriatrics",
	}
	attendings = []string{
		"Dr. Adeyemi", "Dr. Brandt", "Dr. Chowdhury", "Dr. Delacroix", "Dr. Esposito",
		"Dr. Fischer", "Dr. Gallagher", "Dr. Hoang",
	}
	alertPool = []string{
		"Falls risk", "DNR on file", "Isolation: contact precautions",
		"Nil by mouth from midnight", "Pressure injury risk", "Sepsis screen due",
		"Delirium screen positive", "Anticoagulated", "Insulin sliding scale",
		"Telemetry monitoring",
	}
	allergyPool = []string{
		"Penicillin", "Latex", "Sulfonamides", "Morphine", "Iodinated contrast",
		"Peanuts", "Aspirin", "Codeine",
	}
	notePool = []string{
		"Mobilising with frame, supervision required.",
		"Tolerating diet, fluid balance positive overnight.",
		"Family meeting requested for discharge planning.",
		"Pain controlled on current regimen.",
		"Awaiting imaging; transport booked for the morning.",
		"",
	}
)

// Store serves a fixed-size mock census.
type Store struct {
	total int
	seed  uint64
}

// NewStore returns a store of total patients generated from seed.
func NewStore(total int, seed uint64) *Store {
	return &Store{total: max(0, total), seed: seed}
}

// Total returns the census size.
func (s *Store) Total() int {
	return s.total
}

// Get returns the patient at index i.
func (s *Store) Get(i int) (Patient, error) {
	if i < 0 || i >= s.total {
		return Patient{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, s.total)
	}
	return s.generate(i), nil
}

// Page returns up to limit patients starting at offset. Past the end of the
// census it returns an empty page.
func (s *Store) Page(ctx context.Context, offset, limit int) ([]Patient, error) {
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset %d limit %d", ErrOutOfRange, offset, limit)
	}
	end := min(offset+limit, s.total)
	if offset >= end {
		return []Patient{}, nil
	}
	page := make([]Patient, 0, end-offset)
	for i := offset; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page = append(page, s.generate(i))
	}
	return page, nil
}

func (s *Store) generate(i int) Patient {
	rng := rand.New(rand.NewPCG(s.seed, uint64(i)))
	p := Patient{
		MRN:       fmt.Sprintf("MRN-%07d", 1000000+i),
		Name:      pick(rng, givenNames) + " " + pick(rng, familyNames),
		Age:       18 + rng.IntN(80),
		Sex:       pick(rng, []string{"F", "M"}),
		Ward:      pick(rng, wards),
		Bed:       fmt.Sprintf("%d%c", 1+rng.IntN(30), 'A'+rune(rng.IntN(4))),
		Acuity:    Acuity(rng.IntN(4)),
		Attending: pick(rng, attendings),
		Admitted:  censusEpoch.Add(-time.Duration(rng.IntN(14*24*60)) * time.Minute),
		Notes:     pick(rng, notePool),
	}
	p.Alerts = sample(rng, alertPool, rng.IntN(4))
	p.Allergies = sample(rng, allergyPool, rng.IntN(3))
	return p
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// sample returns n distinct values in pool order.
func sample(rng *rand.Rand, pool []string, n int) []string {
	if n <= 0 {
		return nil
	}
	perm := rng.Perm(len(pool))[:n]
	chosen := make([]bool, len(pool))
	for _, i := range perm {
		chosen[i] = true
	}
	out := make([]string, 0, n)
	for i, v := range pool {
		if chosen[i] {
			out = append(out, v)
		}
	}
	return out
}
