package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// Review events are shorter than the lesson that spawned them; half the
// lesson duration with a floor keeps them meaningful.
const minReviewDurationMin = 5

// ParseReviewIntervals parses a comma-separated day-offset list such as
// "1,7,30". Blank and non-positive entries are skipped; an empty result
// means no reviews are configured.
func ParseReviewIntervals(s string) []int {
	var intervals []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			continue
		}
		intervals = append(intervals, n)
	}
	return intervals
}

// ReviewPlacement pairs a review work unit with the exact date it must
// land on. Correctness of the repetition interval takes priority over
// budget purity: the placement date never shifts to honor a day budget.
type ReviewPlacement struct {
	Unit domain.WorkUnit
	Date time.Time
}

// ReviewUnits emits one spaced-review unit per interval, anchored to the
// completion date and labelled with its ordinal position ("REV. 2/3").
func ReviewUnits(src *domain.ScheduledEvent, intervals []int, completion time.Time) []ReviewPlacement {
	if len(intervals) == 0 {
		return nil
	}

	duration := src.DurationMin / 2
	if duration < minReviewDurationMin {
		duration = minReviewDurationMin
	}

	placements := make([]ReviewPlacement, 0, len(intervals))
	for i, offset := range intervals {
		placements = append(placements, ReviewPlacement{
			Date: domain.Day(completion).AddDate(0, 0, offset),
			Unit: domain.WorkUnit{
				MetaID:          src.MetaID,
				Title:           src.Title,
				Type:            domain.GoalReview,
				DisciplineName:  src.DisciplineName,
				TopicName:       src.TopicName,
				Color:           src.Color,
				DurationMin:     duration,
				OriginalEventID: src.ID,
				ReviewLabel:     fmt.Sprintf("%s %d/%d", domain.ReviewLabelPrefix, i+1, len(intervals)),
			},
		})
	}
	return placements
}
