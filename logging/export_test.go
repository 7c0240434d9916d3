package logging

import "github.com/agbru/lazyreg/lazy"

// resetGlobalForTest clears the process-wide logger and its configuration.
// Not safe for concurrent use; tests only.
func resetGlobalForTest() {
	globalCell = lazy.Cell[Logger]{}
	configMu.Lock()
	globalConfig = Config{}
	configMu.Unlock()
}
