// Package qc maintains the append-only quality history of plant batches.
package qc

import (
	"fmt"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

// EventInspection is the event type used for inspection-driven entries.
const EventInspection = "INSPECTION"

// AppendEvent adds the event at the end of the batch history. When the event
// carries a grade, the batch grade is set to it.
func AppendEvent(b *models.PlantBatch, event models.QCEvent) *models.PlantBatch {
	b.QCHistory = append(b.QCHistory, event)
	if event.GradeAssigned != "" && event.GradeAssigned.Valid() {
		b.QualityGrade = event.GradeAssigned
	}
	return b
}

// GradePolicy maps an inspection outcome to the grade a batch should carry.
// The second result is false when the grade must not change.
type GradePolicy interface {
	GradeFor(current models.QualityGrade, outcome models.InspectionOutcome) (models.QualityGrade, bool)
}

// DefaultPolicy is the nursery's grading heuristic: an unsatisfactory
// inspection drops the grade to C unless the batch is already rejected, and
// the first satisfactory inspection of an ungraded batch promotes it to B.
// There is no path back up from C.
type DefaultPolicy struct{}

func (DefaultPolicy) GradeFor(current models.QualityGrade, outcome models.InspectionOutcome) (models.QualityGrade, bool) {
	switch outcome {
	case models.OutcomeUnsatisfactory:
		if current == models.GradeRejected {
			return current, false
		}
		return models.GradeC, true
	case models.OutcomeSatisfactory:
		if current == models.GradeUngraded || current == "" {
			return models.GradeB, true
		}
	}
	return current, false
}

// RecordInspection appends an inspection event to the batch history, applying
// the policy's grade when it decides on a change.
func RecordInspection(b *models.PlantBatch, inspection models.Inspection, policy GradePolicy) (*models.PlantBatch, models.QualityGrade) {
	if policy == nil {
		policy = DefaultPolicy{}
	}

	event := models.QCEvent{
		Date:         inspection.InspectionDate,
		EventType:    EventInspection,
		Summary:      summarize(inspection),
		Notes:        inspection.Notes,
		InspectionID: inspection.InspectionID,
	}
	if grade, change := policy.GradeFor(b.QualityGrade, inspection.OverallStatus); change {
		event.GradeAssigned = grade
	}

	AppendEvent(b, event)
	return b, event.GradeAssigned
}

func summarize(inspection models.Inspection) string {
	var failed, observed int
	for _, f := range inspection.Findings {
		switch f.Status {
		case models.FindingFail:
			failed++
		case models.FindingObservation:
			observed++
		}
	}
	summary := fmt.Sprintf("%s: %s", inspection.InspectionType, inspection.OverallStatus)
	if failed > 0 || observed > 0 {
		summary += fmt.Sprintf(" (%d failed, %d observations)", failed, observed)
	}
	return summary
}
