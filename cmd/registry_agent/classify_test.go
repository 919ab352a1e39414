package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantError   bool
		errorString string
	}{
		{
			name:        "Missing --in flag",
			args:        []string{"classify", "--state", "Ohio"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "Nonexistent input file",
			args:        []string{"classify", "--in", "does_not_exist.pdf"},
			wantError:   true,
			errorString: "failed to read input file",
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorString != "" {
					assert.Contains(t, string(output), tt.errorString)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
