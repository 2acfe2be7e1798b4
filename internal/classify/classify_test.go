package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyInstructionType(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected Instruction
	}{
		{
			name:     "Mint instruction",
			lines:    []string{"Program log: Instruction: MintTo"},
			expected: Mint,
		},
		{
			name:     "Transfer instruction",
			lines:    []string{"Program log: Instruction: Transfer"},
			expected: Transfer,
		},
		{
			name:     "Freeze instruction",
			lines:    []string{"Program log: Instruction: FreezeAccount"},
			expected: Freeze,
		},
		{
			name: "First matching line wins",
			lines: []string{
				"Program log: Instruction: FreezeAccount",
				"Program log: Instruction: Transfer",
			},
			expected: Freeze,
		},
		{
			name: "Order reversed",
			lines: []string{
				"Program log: Instruction: Transfer",
				"Program log: Instruction: FreezeAccount",
			},
			expected: Transfer,
		},
		{
			name:     "No marker",
			lines:    []string{"Program log: something else entirely"},
			expected: Unknown,
		},
		{
			name:     "Empty input",
			lines:    nil,
			expected: Unknown,
		},
		{
			name:     "InitializeMint not confused with MintTo",
			lines:    []string{"Program log: Instruction: InitializeMint"},
			expected: InitMint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, _ := Classify(tt.lines)
			assert.Equal(t, tt.expected, inst)
		})
	}
}

func TestClassifyAmount(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected uint64
	}{
		{
			name:     "Transferred amount",
			lines:    []string{"Program log: Transferred 500 tokens"},
			expected: 500,
		},
		{
			name:     "Minted amount",
			lines:    []string{"Program log: Minted 2000000000 tokens to account abc"},
			expected: 2000000000,
		},
		{
			name:     "Burned amount",
			lines:    []string{"Program log: Burned 42 tokens"},
			expected: 42,
		},
		{
			name: "First parseable line wins",
			lines: []string{
				"Program log: Transferred 100 tokens",
				"Program log: Transferred 200 tokens",
			},
			expected: 100,
		},
		{
			name: "Marker without digits does not stop the scan",
			lines: []string{
				"Program log: Transferred some tokens",
				"Program log: Minted 77 tokens",
			},
			expected: 77,
		},
		{
			name: "Digit run overflowing uint64 yields zero",
			lines: []string{
				"Program log: Transferred 99999999999999999999999999 tokens",
				"Program log: Minted 77 tokens",
			},
			expected: 0,
		},
		{
			name:     "No amount line",
			lines:    []string{"Program log: Instruction: Transfer"},
			expected: 0,
		},
		{
			name:     "Empty input",
			lines:    nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, amount := Classify(tt.lines)
			assert.Equal(t, tt.expected, amount)
		})
	}
}

// Amount extraction must not depend on what the category scan found.
func TestClassifyIndependentScans(t *testing.T) {
	lines := []string{
		"Program log: Instruction: FreezeAccount",
		"Program log: Transferred 500 tokens",
	}
	inst, amount := Classify(lines)
	assert.Equal(t, Freeze, inst)
	assert.Equal(t, uint64(500), amount)

	// No category marker at all, amount still parses.
	inst, amount = Classify([]string{"Program log: Transferred 500 tokens"})
	assert.Equal(t, Unknown, inst)
	assert.Equal(t, uint64(500), amount)
}

func TestMutating(t *testing.T) {
	assert.True(t, Mutating(Transfer))
	assert.True(t, Mutating(Thaw))
	assert.False(t, Mutating(InitMint))
	assert.False(t, Mutating(Unknown))
}
