package sora

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Static errors for request validation. All are detected locally, before
// any network call, and are never retried.
var (
	// ErrUnsupportedResolution is returned when the width/height pair is
	// not one of the supported resolutions.
	ErrUnsupportedResolution = errors.New("sora: unsupported resolution")
	// ErrInvalidDuration is returned when the duration is outside the
	// allowed range.
	ErrInvalidDuration = errors.New("sora: invalid duration")
	// ErrInvalidVariantCount is returned when the variant count exceeds
	// the maximum for the resolution tier.
	ErrInvalidVariantCount = errors.New("sora: invalid variant count")
	// ErrInvalidRequest is returned when a request field fails basic
	// shape validation (for example, an empty prompt).
	ErrInvalidRequest = errors.New("sora: invalid request")
)

// Tier groups resolutions sharing the same maximum variant count.
type Tier string

// Resolution tiers.
const (
	// TierStandard covers sub-720p resolutions, up to 4 variants.
	TierStandard Tier = "standard"
	// Tier720p covers 720p resolutions, up to 2 variants.
	Tier720p Tier = "720p"
	// Tier1080p covers 1080p resolutions, single variant only.
	Tier1080p Tier = "1080p"
)

// Duration limits in seconds, common to all tiers.
const (
	MinDurationSeconds = 1
	MaxDurationSeconds = 20
)

// resolution is one supported width/height pair and its tier.
type resolution struct {
	width  int
	height int
	tier   Tier
}

// supportedResolutions is the authoritative table of width/height pairs
// the service accepts.
var supportedResolutions = []resolution{
	{480, 480, TierStandard},
	{480, 854, TierStandard},
	{854, 480, TierStandard},
	{720, 720, Tier720p},
	{720, 1280, Tier720p},
	{1280, 720, Tier720p},
	{1080, 1080, Tier1080p},
	{1080, 1920, Tier1080p},
	{1920, 1080, Tier1080p},
}

// maxVariantsByTier caps the variant count per resolution tier.
var maxVariantsByTier = map[Tier]int{
	TierStandard: 4,
	Tier720p:     2,
	Tier1080p:    1,
}

// validate performs struct-tag validation of request shapes.
var validate = validator.New(validator.WithRequiredStructEnabled())

// lookupResolution finds the table entry for a width/height pair.
func lookupResolution(width, height int) (resolution, bool) {
	for _, res := range supportedResolutions {
		if res.width == width && res.height == height {
			return res, true
		}
	}
	return resolution{}, false
}

// SupportedResolutions returns the supported width/height pairs as
// "WxH" strings, in table order.
func SupportedResolutions() []string {
	out := make([]string, 0, len(supportedResolutions))
	for _, res := range supportedResolutions {
		out = append(out, fmt.Sprintf("%dx%d", res.width, res.height))
	}
	return out
}

// MaxVariants returns the maximum variant count for a width/height pair.
// It returns ErrUnsupportedResolution if the pair is not in the table.
func MaxVariants(width, height int) (int, error) {
	res, ok := lookupResolution(width, height)
	if !ok {
		return 0, unsupportedResolutionError(width, height)
	}
	return maxVariantsByTier[res.tier], nil
}

// ValidateRequest checks a generation request against the supported
// resolution table and the duration and variant limits. Rules are checked
// in order: resolution, duration, variant count, then field shape. The
// returned error wraps the sentinel naming the violated rule.
func ValidateRequest(req GenerationRequest) error {
	res, ok := lookupResolution(req.Width, req.Height)
	if !ok {
		return unsupportedResolutionError(req.Width, req.Height)
	}

	if req.NSeconds < MinDurationSeconds || req.NSeconds > MaxDurationSeconds {
		return fmt.Errorf("%w: duration must be between %d and %d seconds, got %d",
			ErrInvalidDuration, MinDurationSeconds, MaxDurationSeconds, req.NSeconds)
	}

	maxVariants := maxVariantsByTier[res.tier]
	if req.NVariants < 1 || req.NVariants > maxVariants {
		return fmt.Errorf("%w: %s resolutions support between 1 and %d variants, got %d",
			ErrInvalidVariantCount, res.tier, maxVariants, req.NVariants)
	}

	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	return nil
}

func unsupportedResolutionError(width, height int) error {
	return fmt.Errorf("%w: %dx%d is not supported, supported resolutions: %s",
		ErrUnsupportedResolution, width, height,
		strings.Join(SupportedResolutions(), ", "))
}
