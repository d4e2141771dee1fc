package providers

import "fmt"

// AssessmentCacheKey is the cache key for a single assessment
func AssessmentCacheKey(id string) string {
	return fmt.Sprintf("assessment:%s", id)
}

// AssessmentHistoryCacheKey is the cache key for one page of a user's history
func AssessmentHistoryCacheKey(userID string, limit, offset int) string {
	return fmt.Sprintf("assessments:user:%s:%d:%d", userID, limit, offset)
}

// AssessmentHistoryPattern matches every cached history page of a user
func AssessmentHistoryPattern(userID string) string {
	return fmt.Sprintf("assessments:user:%s:*", userID)
}
