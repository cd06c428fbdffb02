package updater

import (
	"os"
	"strings"

	"github.com/mitchellh/go-ps"
)

// DefaultProgramMode is the file mode of the replaced program file.
const DefaultProgramMode os.FileMode = 0o755

// RunningInstances returns the PIDs of other processes whose executable is name.
func RunningInstances(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	thisProcessID := os.Getpid()

	var pids []int

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}

// sameExecutable compares process names, ignoring a Windows ".exe" suffix.
func sameExecutable(executable, name string) bool {
	trim := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(s), ".exe")
	}

	return trim(executable) == trim(name)
}
