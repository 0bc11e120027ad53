package core

import (
	"errors"
	"strings"
	"time"
)

// Entry types for the budget ledger.
const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// Crop status values. Ready is the harvest-readiness sentinel used by the
// rollup; a crop counts as active until it is marked harvested.
const (
	CropActive    CropStatus = "active"
	CropReady     CropStatus = "ready"
	CropHarvested CropStatus = "harvested"
	CropFailed    CropStatus = "failed"
)

const (
	HealthHealthy        CropHealth = "healthy"
	HealthNeedsAttention CropHealth = "needs_attention"
	HealthCritical       CropHealth = "critical"
)

const (
	StageSeedling  CropStage = "seedling"
	StageGrowing   CropStage = "growing"
	StageMature    CropStage = "mature"
	StageHarvested CropStage = "harvested"
)

const (
	QualityExcellent HarvestQuality = "excellent"
	QualityGood      HarvestQuality = "good"
	QualityFair      HarvestQuality = "fair"
	QualityPoor      HarvestQuality = "poor"
)

const (
	PollActive PollStatus = "active"
	PollClosed PollStatus = "closed"
)

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type (
	EntryType      string
	CropStatus     string
	CropHealth     string
	CropStage      string
	HarvestQuality string
	PollStatus     string
	TaskStatus     string
	TaskPriority   string
	Role           string

	// Money is an amount in centavos. Calculations stay in integer
	// centavos; convert to pesos only for display.
	Money struct {
		Centavos int64
	}

	// BudgetEntry is one dated, categorized ledger line. Category is an
	// open string set: new categories group correctly in the summary
	// without any enum check at aggregation time.
	BudgetEntry struct {
		ID          string
		Description string
		Category    string
		Amount      Money
		Type        EntryType
		Date        time.Time
		Receipt     string
	}

	Crop struct {
		ID                  string
		Name                string
		PlantingDate        time.Time
		ExpectedHarvestDate time.Time
		Health              CropHealth
		Stage               CropStage
		Status              CropStatus
		Notes               string
	}

	// Harvest references a crop by id. CropName is a read-path cache
	// filled by the repository join; aggregators never rely on it.
	Harvest struct {
		ID          string
		CropID      string
		CropName    string
		HarvestDate time.Time
		QuantityKG  float64
		Quality     HarvestQuality
		Notes       string
	}

	PollOption struct {
		ID    string
		Text  string
		Votes int
	}

	// Poll keeps TotalVotes denormalized; ApplyVote is the only path
	// allowed to change vote counts. Voters is the ledger of voter ids
	// that already cast a vote (empty ids are never recorded).
	Poll struct {
		ID            string
		Question      string
		Options       []PollOption
		TotalVotes    int
		Status        PollStatus
		EndsAt        time.Time
		CreatedBy     string
		CreatedByName string
		Voters        []string
	}

	Feedback struct {
		ID       string
		Name     string
		Message  string
		Category string
		Date     time.Time
	}

	Volunteer struct {
		ID               string
		Name             string
		Role             string
		HoursContributed float64
		TasksCompleted   int
		LastActivity     time.Time
	}

	Task struct {
		ID         string
		Title      string
		AssignedTo string
		DueDate    time.Time
		Status     TaskStatus
		Priority   TaskPriority
	}

	Photo struct {
		ID         string
		Caption    string
		URL        string
		UploadedBy string
		UploadedAt time.Time
	}

	UserProfile struct {
		ID            string
		Email         string
		Name          string
		Role          Role
		CropsPlanted  int
		VotesCast     int
		FeedbackGiven int
		JoinedAt      time.Time
	}

	// LocationSetting is the singleton used by the weather resolution
	// chain. Absence means the resolver skips the live fetch entirely.
	LocationSetting struct {
		City      string
		Latitude  float64
		Longitude float64
		Country   string
	}
)

var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidType           = errors.New("invalid entry type")
	ErrEmptyDescription      = errors.New("empty description")
	ErrEmptyCategory         = errors.New("empty category")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrHarvestBeforePlanting = errors.New("harvest date before planting date")

	ErrOptionNotFound    = errors.New("poll option not found")
	ErrPollClosed        = errors.New("poll is closed")
	ErrAlreadyVoted      = errors.New("voter already cast a vote in this poll")
	ErrInconsistentTally = errors.New("poll total votes do not match option votes")

	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

func (m Money) Validate() error {
	if m.Centavos <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Pesos returns the peso value as a float64 for display purposes only.
func (m Money) Pesos() float64 {
	return float64(m.Centavos) / 100.0
}

func (e BudgetEntry) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Type != Income && e.Type != Expense {
		return ErrInvalidType
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (c Crop) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("empty crop name")
	}
	if c.PlantingDate.IsZero() {
		return ErrInvalidDate
	}
	if !c.ExpectedHarvestDate.IsZero() && c.ExpectedHarvestDate.Before(c.PlantingDate) {
		return errors.New("expected harvest date before planting date")
	}
	switch c.Status {
	case CropActive, CropReady, CropHarvested, CropFailed:
	default:
		return errors.New("invalid crop status")
	}
	return nil
}

// ValidateAgainst checks the harvest against its referenced crop. The
// planting-date ordering is a caller-side check: storage does not enforce it.
func (h Harvest) ValidateAgainst(crop Crop) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if h.HarvestDate.Before(crop.PlantingDate) {
		return ErrHarvestBeforePlanting
	}
	return nil
}

func (h Harvest) Validate() error {
	if strings.TrimSpace(h.CropID) == "" {
		return errors.New("empty crop id")
	}
	if h.QuantityKG <= 0 {
		return ErrInvalidQuantity
	}
	if h.HarvestDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (l LocationSetting) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return ErrInvalidCoordinates
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	if strings.TrimSpace(l.City) == "" {
		return errors.New("empty city")
	}
	return nil
}
