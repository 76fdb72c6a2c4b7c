package services

// SplitEvenly returns how many of total items each of buckets receives when
// handed out in order: the first total%buckets buckets get one extra. The
// counts sum to total and differ by at most one.
func SplitEvenly(total int, buckets int) []int {
	if buckets <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base := total / buckets
	remainder := total % buckets
	counts := make([]int, buckets)
	for i := range counts {
		counts[i] = base
		if i < remainder {
			counts[i]++
		}
	}
	return counts
}
