package pagemig

// Summary tallies the outcomes of a migration run.
type Summary struct {
	Created   int
	Updated   int
	Unchanged int
	NotFound  int
	Failed    int
	Previewed int

	// NeedsReview counts records whose extraction fell back to a value a
	// person has to confirm, such as a destination with an unknown circuit.
	NeedsReview int

	// Review lists the slugs counted in NeedsReview, in run order.
	Review []string

	// Failures lists the failed items in run order.
	Failures []Failure
}

// Failure records why one manifest item failed.
type Failure struct {
	Slug string
	Type ContentType
	Err  error
}

// Add counts one outcome.
func (s *Summary) Add(o Outcome) {
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeFailed:
		s.Failed++
	case OutcomePreviewed:
		s.Previewed++
	}
}

// Fail counts a failed item and remembers its error.
func (s *Summary) Fail(item ManifestItem, err error) {
	s.Add(OutcomeFailed)
	s.Failures = append(s.Failures, Failure{Slug: item.Slug, Type: item.Type, Err: err})
}

// Flag counts a record that needs human review.
func (s *Summary) Flag(slug string) {
	s.NeedsReview++
	s.Review = append(s.Review, slug)
}

// Succeeded returns the number of items written or confirmed identical.
func (s *Summary) Succeeded() int {
	return s.Created + s.Updated + s.Unchanged
}

// Total returns the number of items processed.
func (s *Summary) Total() int {
	return s.Succeeded() + s.NotFound + s.Failed + s.Previewed
}
