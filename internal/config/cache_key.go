package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CompletedTestsKey returns the key holding a user's completed tests
func (r *CacheKeyStruct) CompletedTestsKey(userID string) string {
	return fmt.Sprintf("user:%s:completed_tests", userID)
}

// AcademicTotalKey returns the key holding a user's academic test total
func (r *CacheKeyStruct) AcademicTotalKey(userID string) string {
	return fmt.Sprintf("user:%s:academic_total", userID)
}

// ProfileKey returns the key holding a user's education profile
func (r *CacheKeyStruct) ProfileKey(userID string) string {
	return fmt.Sprintf("user:%s:profile", userID)
}

// QuestionBankKey returns the cache key for a test's question bank
func (r *CacheKeyStruct) QuestionBankKey(testID string) string {
	return fmt.Sprintf("test:%s:bank", testID)
}

var CacheKey = NewCacheKeyStruct()
