package stats

// RetryAmount returns the points granted by a retry when the user has already
// used retryCount grants: 50, 40, 30, 20, then a floor of 10.
func RetryAmount(retryCount int) int {
	amount := 50 - retryCount*10
	if amount < 10 {
		return 10
	}
	return amount
}

// Accuracy returns the rounded percentage of correct answers, or 0 when the
// user has not answered anything yet.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}
