package query

import "golang.org/x/sync/errgroup"

// RunConcurrent runs each task concurrently and collects their results in
// the same order the tasks were given. It is safe because query.* never
// mutates the graph.Store it's handed: construction has already finished by
// the time anyone calls this (see graph.Store's doc comment). If any task
// returns an error, RunConcurrent returns the first one observed and the
// results slice is nil.
func RunConcurrent[T any](tasks ...func() (T, error)) ([]T, error) {
	results := make([]T, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			r, err := task()
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
