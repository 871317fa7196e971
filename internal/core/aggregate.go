package core

// AggregateByDay merges the per-project month responses into day buckets.
// Pure and deterministic: no clock access, no dedup, every record keeps
// its own line. Bucket order follows the input order of months, then the
// record order within each month.
func AggregateByDay(months []ProjectMonth) (DayBuckets, error) {
	buckets := make(DayBuckets)
	for _, pm := range months {
		name := pm.Project.DisplayName()
		for _, rec := range pm.Records {
			if rec.Date == "" {
				return nil, &AggregationError{Project: name, Err: ErrInvalidDate}
			}
			day, err := ParseDate(rec.Date)
			if err != nil {
				return nil, &AggregationError{Project: name, Err: err}
			}
			buckets[day] = append(buckets[day], Line{Project: name, Hours: rec.Quantity})
		}
	}
	return buckets, nil
}
