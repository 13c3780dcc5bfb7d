package arena

// TaskSize returns the number of games per task for a match of the given
// length. The size divides games evenly, is even so every task alternates
// colours fairly, and leaves at least one task per process. The fewest,
// largest tasks that satisfy this are preferred.
func TaskSize(games, processes int) (int, error) {
	if games <= 0 || processes <= 0 {
		return 0, &ConfigurationError{Games: games, Processes: processes}
	}
	for n := 1; n <= games; n++ {
		if games%n != 0 {
			continue
		}
		size := games / n
		if size%2 == 0 && size*processes <= games {
			return size, nil
		}
	}
	return 0, &ConfigurationError{Games: games, Processes: processes}
}

// Partition splits a match into tasks of TaskSize games that share the
// match's stop flag.
func Partition(m *Match, processes int, stop *StopFlag) ([]Task, error) {
	size, err := TaskSize(m.Games, processes)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, m.Games/size)
	for i := range tasks {
		tasks[i] = Task{Match: m, Index: i, Games: size, Stop: stop}
	}
	return tasks, nil
}
