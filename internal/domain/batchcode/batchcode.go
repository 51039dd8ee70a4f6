// Package batchcode formats and parses plant batch identifiers of the form
// YYYY-SUP-VAR-NNN.
package batchcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// Generate builds a batch identifier. Codes are uppercased and the sequence
// is zero-padded to three digits; sequences above 999 keep all their digits.
func Generate(year int, supplierCode, varietyCode string, sequence int) (string, error) {
	if year < MinYear || year > MaxYear {
		return "", models.Invalid("year", fmt.Sprintf("must be between %d and %d, got %d", MinYear, MaxYear, year))
	}
	supplier, err := code("supplierCode", supplierCode)
	if err != nil {
		return "", err
	}
	variety, err := code("varietyCode", varietyCode)
	if err != nil {
		return "", err
	}
	if sequence < 1 {
		return "", models.Invalid("sequence", fmt.Sprintf("must be at least 1, got %d", sequence))
	}

	return fmt.Sprintf("%d-%s-%s-%03d", year, supplier, variety, sequence), nil
}

// code uppercases a supplier or variety code. Only ASCII letters and digits
// are allowed so the identifier splits back into its four parts.
func code(field, raw string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return "", models.Invalid(field, "must not be empty")
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", models.Invalid(field, fmt.Sprintf("%q may only contain letters and digits", raw))
		}
	}
	return c, nil
}

// Parts is a decoded batch identifier.
type Parts struct {
	Year         int
	SupplierCode string
	VarietyCode  string
	Sequence     int
}

// Parse splits an identifier produced by Generate.
func Parse(id string) (Parts, error) {
	fields := strings.Split(strings.TrimSpace(id), "-")
	if len(fields) != 4 {
		return Parts{}, models.Invalid("batchId", fmt.Sprintf("%q is not of the form YYYY-SUP-VAR-NNN", id))
	}

	year, err := strconv.Atoi(fields[0])
	if err != nil || len(fields[0]) != 4 {
		return Parts{}, models.Invalid("batchId", fmt.Sprintf("%q has an invalid year", id))
	}
	seq, err := strconv.Atoi(fields[3])
	if err != nil || seq < 1 {
		return Parts{}, models.Invalid("batchId", fmt.Sprintf("%q has an invalid sequence", id))
	}
	if fields[1] == "" || fields[2] == "" {
		return Parts{}, models.Invalid("batchId", fmt.Sprintf("%q has an empty code", id))
	}

	return Parts{Year: year, SupplierCode: fields[1], VarietyCode: fields[2], Sequence: seq}, nil
}

// NextSequence returns one more than the highest sequence among the given
// batches that share year, supplier and variety.
func NextSequence(existing []models.PlantBatch, year int, supplierCode, varietyCode string) int {
	supplier := strings.ToUpper(strings.TrimSpace(supplierCode))
	variety := strings.ToUpper(strings.TrimSpace(varietyCode))

	highest := 0
	for _, b := range existing {
		if b.Year != year || !strings.EqualFold(b.SupplierCode, supplier) || !strings.EqualFold(b.PlantVarietyCode, variety) {
			continue
		}
		if b.SequenceNumber > highest {
			highest = b.SequenceNumber
		}
	}
	return highest + 1
}
