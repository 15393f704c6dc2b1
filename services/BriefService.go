package services

import (
	"math"
	"strings"
	"time"

	"boothStore/entities"
	"boothStore/models"
	"boothStore/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BriefService serves the congress brief questionnaire. Submitted briefs are
// logged for the design team, not stored.
type BriefService struct {
	sections []models.BriefSection
	index    map[string]models.BriefQuestion
	log      *zap.Logger
	now      func() time.Time
}

func NewBriefService(logger *zap.Logger) *BriefService {
	bs := &BriefService{
		sections: repository.BriefSections(),
		index:    make(map[string]models.BriefQuestion),
		log:      logger,
		now:      time.Now,
	}
	for _, s := range bs.sections {
		for _, q := range s.Questions {
			bs.index[q.Id] = q
		}
	}
	return bs
}

func (bs *BriefService) Sections() []models.BriefSection {
	return repository.BriefSections()
}

// Progress is the rounded percentage of required questions answered.
func (bs *BriefService) Progress(answers map[string]models.BriefValue) int {
	required, answered := 0, 0
	for _, s := range bs.sections {
		for _, q := range s.Questions {
			if !q.Required {
				continue
			}
			required++
			if answers[q.Id].Answered() {
				answered++
			}
		}
	}
	if required == 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(required) * 100))
}

// Validate checks answers against the questionnaire: required questions must
// be answered, choices must come from the listed options and free-text
// questions take a single value.
func (bs *BriefService) Validate(answers map[string]models.BriefValue) error {
	verr := &models.ValidationError{}
	for id := range answers {
		if _, ok := bs.index[id]; !ok {
			verr.Add(id, "Unknown question")
		}
	}
	for _, s := range bs.sections {
		for _, q := range s.Questions {
			v := answers[q.Id]
			if !v.Answered() {
				if q.Required {
					verr.Add(q.Id, "This field is required")
				}
				continue
			}
			if msg := checkBriefAnswer(q, clean(v)); msg != "" {
				verr.Add(q.Id, msg)
			}
		}
	}
	return verr.Err()
}

func checkBriefAnswer(q models.BriefQuestion, v []string) string {
	switch q.Type {
	case models.BriefCheckbox:
		for _, s := range v {
			if !containsExact(q.Options, s) {
				return "Choose from the listed options"
			}
		}
	case models.BriefSelect:
		if len(v) > 1 {
			return "Choose a single option"
		}
		if !containsExact(q.Options, v[0]) {
			return "Choose one of the listed options"
		}
	case models.BriefDate:
		if len(v) > 1 {
			return "Only one answer is allowed"
		}
		if _, err := time.Parse(DateLayout, v[0]); err != nil {
			return "Enter a date as YYYY-MM-DD"
		}
	default:
		if len(v) > 1 {
			return "Only one answer is allowed"
		}
	}
	return ""
}

// clean trims every entry and drops blank ones.
func clean(v models.BriefValue) []string {
	res := make([]string, 0, len(v))
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func (bs *BriefService) Submit(answers map[string]models.BriefValue) (receipt entities.BriefReceipt, err error) {
	if err = bs.Validate(answers); err != nil {
		return
	}
	accepted := make(map[string][]string, len(answers))
	for id, v := range answers {
		if c := clean(v); len(c) > 0 {
			accepted[id] = c
		}
	}
	receipt = entities.BriefReceipt{
		BriefId:     "brief-" + uuid.NewString(),
		SubmittedAt: bs.now().UTC(),
		Event:       strings.Join(accepted["event-name"], " "),
		Progress:    bs.Progress(answers),
		Answers:     accepted,
	}
	bs.log.Info("brief submitted",
		zap.String("briefId", receipt.BriefId),
		zap.String("event", receipt.Event),
		zap.Strings("venue", accepted["venue"]),
		zap.Int("answered", len(accepted)),
		zap.Int("progress", receipt.Progress),
	)
	return
}
