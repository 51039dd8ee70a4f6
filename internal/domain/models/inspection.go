package models

import (
	"fmt"
	"time"
)

// FindingStatus is the verdict on one inspected parameter.
type FindingStatus string

const (
	FindingPass        FindingStatus = "PASS"
	FindingFail        FindingStatus = "FAIL"
	FindingObservation FindingStatus = "OBSERVATION"
)

// InspectionOutcome is the overall verdict entered by the inspector.
type InspectionOutcome string

const (
	OutcomeSatisfactory   InspectionOutcome = "Satisfactory"
	OutcomeNeedsFollowUp  InspectionOutcome = "Needs Follow-up"
	OutcomeUnsatisfactory InspectionOutcome = "Unsatisfactory"
)

// InspectionFinding is one observed parameter.
type InspectionFinding struct {
	Parameter     string        `bson:"parameter" json:"parameter" validate:"required"`
	ObservedValue string        `bson:"observedValue" json:"observedValue"`
	Status        FindingStatus `bson:"status" json:"status" validate:"oneof=PASS FAIL OBSERVATION"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Inspection targets either a batch or a location, never both.
type Inspection struct {
	InspectionID   string              `bson:"_id" json:"inspectionId"`
	InspectionDate time.Time           `bson:"inspectionDate" json:"inspectionDate"`
	Inspector      string              `bson:"inspector" json:"inspector"`
	PlantBatchID   *string             `bson:"plantBatchId" json:"plantBatchId"`
	LocationID     *string             `bson:"locationId" json:"locationId"`
	InspectionType string              `bson:"inspectionType" json:"inspectionType"`
	Findings       []InspectionFinding `bson:"findings" json:"findings"`
	OverallStatus  InspectionOutcome   `bson:"overallStatus" json:"overallStatus"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	GradeAssigned  QualityGrade        `bson:"gradeAssigned,omitempty" json:"gradeAssigned,omitempty"`
}

// InspectionInput is the request shape of an inspection.
type InspectionInput struct {
	InspectionDate *time.Time          `json:"inspectionDate,omitempty"`
	Inspector      string              `json:"inspector" validate:"required"`
	PlantBatchID   *string             `json:"plantBatchId,omitempty"`
	LocationID     *string             `json:"locationId,omitempty"`
	InspectionType string              `json:"inspectionType" validate:"required"`
	Findings       []InspectionFinding `json:"findings" validate:"dive"`
	OverallStatus  InspectionOutcome   `json:"overallStatus" validate:"oneof=Satisfactory 'Needs Follow-up' Unsatisfactory"`
	Notes          string              `json:"notes,omitempty"`
}

// NewInspection validates the input and enforces a single target.
func NewInspection(id string, in InspectionInput, now time.Time) (*Inspection, error) {
	if trimmed(id) == "" {
		return nil, Missing("inspectionId")
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	batchID := nonBlank(in.PlantBatchID)
	locationID := nonBlank(in.LocationID)
	switch {
	case batchID == nil && locationID == nil:
		return nil, Invalid("target", "either plantBatchId or locationId is required")
	case batchID != nil && locationID != nil:
		return nil, Invalid("target", fmt.Sprintf("inspection cannot target both batch %s and location %s", *batchID, *locationID))
	}

	date := now
	if in.InspectionDate != nil && !in.InspectionDate.IsZero() {
		date = *in.InspectionDate
	}
	findings := in.Findings
	if findings == nil {
		findings = []InspectionFinding{}
	}

	return &Inspection{
		InspectionID:   id,
		InspectionDate: date,
		Inspector:      trimmed(in.Inspector),
		PlantBatchID:   batchID,
		LocationID:     locationID,
		InspectionType: in.InspectionType,
		Findings:       findings,
		OverallStatus:  in.OverallStatus,
		Notes:          in.Notes,
	}, nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := trimmed(*s)
	if v == "" {
		return nil
	}
	return &v
}
