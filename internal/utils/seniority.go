package utils

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"equipment-dispatch-backend/internal/domain"
)

// DefaultSeniorityWeights is the fallback per-year weight vector, most recent
// fiscal year first. The deployed values come from configuration.
var DefaultSeniorityWeights = [4]float64{1.5, 1.0, 0.5, 0.25}

// ComputeSeniorityScore computes the seniority score from a four-year service
// hours history. Hours are weighted with the most recent fiscal year highest
// and the sum is normalized by years of service, so steady participation
// outranks raw accumulation.
func ComputeSeniorityScore(serviceHours [4]float64, yearsOfService int32, weights [4]float64) (float64, error) {
	if yearsOfService < 0 {
		return 0, fmt.Errorf("%w: years of service %d", domain.ErrInvalidHistory, yearsOfService)
	}
	for i, h := range serviceHours {
		if h < 0 {
			return 0, fmt.Errorf("%w: service hours[%d] = %v", domain.ErrInvalidHistory, i, h)
		}
	}

	var weighted float64
	for i := range serviceHours {
		weighted += serviceHours[i] * weights[i]
	}

	years := float64(yearsOfService)
	if years < 1 {
		years = 1
	}
	return RoundScore(weighted / years), nil
}

// RoundScore rounds a seniority score to three decimal places so stored and
// recomputed values compare exactly.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// CompareCandidates orders two call-out candidates within one block: higher
// score first, then earlier registered date, then lower equipment id. The
// result is negative when a ranks ahead of b.
func CompareCandidates(a, b domain.CallOutCandidate) int {
	if a.SeniorityScore != b.SeniorityScore {
		if a.SeniorityScore > b.SeniorityScore {
			return -1
		}
		return 1
	}
	if a.RegisteredDate != b.RegisteredDate {
		// yyyy-mm-dd compares chronologically as a string; an empty date
		// sorts last.
		if b.RegisteredDate == "" || (a.RegisteredDate != "" && a.RegisteredDate < b.RegisteredDate) {
			return -1
		}
		return 1
	}
	if a.EquipmentID != b.EquipmentID {
		if a.EquipmentID < b.EquipmentID {
			return -1
		}
		return 1
	}
	return 0
}

// SortCandidates sorts candidates into call-out order. The sort is stable and
// fully deterministic: the tie-break chain ends at the unique equipment id.
func SortCandidates(candidates []domain.CallOutCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return CompareCandidates(candidates[i], candidates[j]) < 0
	})
}

// CompareSeniorityRecords orders two seniority records within one block using
// the same chain as CompareCandidates.
func CompareSeniorityRecords(a, b *domain.SeniorityRecord) int {
	return CompareCandidates(
		domain.CallOutCandidate{EquipmentID: a.EquipmentID, SeniorityScore: a.SeniorityScore, RegisteredDate: a.RegisteredDate},
		domain.CallOutCandidate{EquipmentID: b.EquipmentID, SeniorityScore: b.SeniorityScore, RegisteredDate: b.RegisteredDate},
	)
}

// BlockSeniorityLabel formats the display label for a rotation entry from
// its block and seniority score, e.g. "Open-500" or "1-83.75".
func BlockSeniorityLabel(block string, seniorityScore float64) string {
	return block + "-" + strconv.FormatFloat(seniorityScore, 'f', -1, 64)
}

// FiscalYearFor returns the fiscal year containing t. Fiscal years start
// April 1; January through March belong to the prior year's fiscal year.
func FiscalYearFor(t time.Time) int32 {
	if t.Month() < time.April {
		return int32(t.Year() - 1)
	}
	return int32(t.Year())
}

// FiscalYearStart returns the first instant of the given fiscal year (UTC).
func FiscalYearStart(fiscalYear int32) time.Time {
	return time.Date(int(fiscalYear), time.April, 1, 0, 0, 0, 0, time.UTC)
}
