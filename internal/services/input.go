package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yukikurage/idea-tracker/internal/constants"
	"github.com/yukikurage/idea-tracker/internal/models"
)

// IdeaInput is the raw idea form. Numeric fields stay strings until
// normalizeIdeaInput parses them.
type IdeaInput struct {
	Name                string
	Description         string
	MarketingStrategies []string
	TargetCustomer      string
	EstimatedCost       string
	Timeline            string
	Potential           string
}

// ideaFields is IdeaInput after validation. Absent optional values are nil.
type ideaFields struct {
	name           string
	description    string
	strategies     []string
	targetCustomer *string
	estimatedCost  *float64
	timeline       *string
	potential      *int
}

func normalizeIdeaInput(input IdeaInput) (ideaFields, error) {
	verr := &ValidationError{}
	fields := ideaFields{
		name:           strings.TrimSpace(input.Name),
		description:    strings.TrimSpace(input.Description),
		targetCustomer: optionalText(input.TargetCustomer),
		timeline:       optionalText(input.Timeline),
	}

	if fields.name == "" {
		verr.add("name is required")
	}
	if fields.description == "" {
		verr.add("description is required")
	}
	checkLength(verr, "name", &fields.name)
	checkLength(verr, "target customer", fields.targetCustomer)
	checkLength(verr, "timeline", fields.timeline)

	cost, ok := parseOptionalFloat(input.EstimatedCost)
	switch {
	case !ok:
		verr.add("estimated cost must be a number")
	case cost != nil && *cost < 0:
		verr.add("estimated cost cannot be negative")
	case cost != nil && *cost > constants.MaxEstimatedCost:
		verr.add("estimated cost cannot exceed %.2f", constants.MaxEstimatedCost)
	default:
		fields.estimatedCost = cost
	}

	potential, ok := parseOptionalInt(input.Potential)
	if !ok {
		verr.add("potential must be a whole number")
	}
	fields.potential = potential

	strategies, tooLong := NormalizeStrategies(input.MarketingStrategies)
	for _, tag := range tooLong {
		verr.add("marketing strategy %q is longer than %d characters", tag, constants.MaxMarketingTagLength)
	}
	fields.strategies = strategies

	return fields, verr.orNil()
}

func checkLength(verr *ValidationError, field string, value *string) {
	if value != nil && utf8.RuneCountInString(*value) > constants.MaxTextFieldLength {
		verr.add("%s must be at most %d characters", field, constants.MaxTextFieldLength)
	}
}

func (f ideaFields) apply(idea *models.Idea) {
	idea.Name = f.name
	idea.Description = f.description
	idea.TargetCustomer = f.targetCustomer
	idea.EstimatedCost = f.estimatedCost
	idea.Timeline = f.timeline
	idea.Potential = f.potential

	idea.MarketingStrategies = make([]models.IdeaMarketingStrategy, len(f.strategies))
	for i, tag := range f.strategies {
		idea.MarketingStrategies[i] = models.IdeaMarketingStrategy{Strategy: tag}
	}
}

// NormalizeStrategy canonicalises a marketing strategy tag: trimmed,
// lower-cased, inner whitespace collapsed to underscores.
func NormalizeStrategy(tag string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(tag), unicode.IsSpace), "_")
}

// NormalizeStrategies canonicalises and de-duplicates tags. Values may carry
// several comma separated tags. Tags over the length limit are returned
// separately.
func NormalizeStrategies(values []string) (tags []string, tooLong []string) {
	seen := make(map[string]struct{})
	tags = []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			tag := NormalizeStrategy(part)
			if tag == "" {
				continue
			}
			if len(tag) > constants.MaxMarketingTagLength {
				tooLong = append(tooLong, tag)
				continue
			}
			if _, exists := seen[tag]; exists {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags, tooLong
}

// IdeaQuery is the raw listing query string.
type IdeaQuery struct {
	Name              string
	MarketingStrategy string
	TargetCustomer    string
	MinCost           string
	MaxCost           string
	MinPotential      string
}

// ParseIdeaQuery turns the raw query into a listing filter. Empty values are
// absent; unparseable numbers are dropped and reported as notices.
func ParseIdeaQuery(userID uint64, q IdeaQuery) (ListIdeasInput, []string) {
	input := ListIdeasInput{
		UserID:         userID,
		Name:           optionalText(q.Name),
		TargetCustomer: optionalText(q.TargetCustomer),
	}
	var notices []string

	if tag := NormalizeStrategy(q.MarketingStrategy); tag != "" {
		input.MarketingStrategy = &tag
	}

	var ok bool
	if input.MinCost, ok = parseOptionalFloat(q.MinCost); !ok {
		notices = append(notices, "Ignored minimum cost: not a number")
	}
	if input.MaxCost, ok = parseOptionalFloat(q.MaxCost); !ok {
		notices = append(notices, "Ignored maximum cost: not a number")
	}
	if input.MinPotential, ok = parseOptionalInt(q.MinPotential); !ok {
		notices = append(notices, "Ignored minimum potential: not a whole number")
	}

	return input, notices
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// parseOptionalFloat returns (nil, true) for empty input and (nil, false)
// for anything that is not a finite number.
func parseOptionalFloat(value string) (*float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

func parseOptionalInt(value string) (*int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, false
	}
	return &n, true
}
