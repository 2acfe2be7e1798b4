// Package classify derives an instruction category and a best-effort token
// amount from the raw log lines of a single Cobotium program transaction.
// The heuristics live here and only here; callers see the enum and the
// number, so a structured instruction decoder could replace this package
// without touching them.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Instruction is the category of a Cobotium program instruction as it
// appears in transaction logs.
type Instruction string

const (
	InitMint    Instruction = "init_mint"
	InitAccount Instruction = "init_account"
	Mint        Instruction = "mint"
	Transfer    Instruction = "transfer"
	Burn        Instruction = "burn"
	Freeze      Instruction = "freeze"
	Thaw        Instruction = "thaw"
	Unknown     Instruction = "unknown"
)

// markers in the order the program dispatcher logs them. First matching
// line wins, first matching marker within a line wins.
var markers = []struct {
	substr string
	inst   Instruction
}{
	{"Instruction: InitializeMint", InitMint},
	{"Instruction: InitializeAccount", InitAccount},
	{"Instruction: MintTo", Mint},
	{"Instruction: Transfer", Transfer},
	{"Instruction: Burn", Burn},
	{"Instruction: FreezeAccount", Freeze},
	{"Instruction: ThawAccount", Thaw},
}

var amountPattern = regexp.MustCompile(`(Transferred|Minted|Burned) (\d+)`)

// Classify scans the log lines of one transaction and returns the
// instruction category together with the amount of tokens moved.
// The two scans are independent: a transaction may yield an amount even
// when its category resolves to Unknown, and vice versa.
func Classify(lines []string) (Instruction, uint64) {
	return instructionType(lines), amount(lines)
}

func instructionType(lines []string) Instruction {
	for _, line := range lines {
		for _, m := range markers {
			if strings.Contains(line, m.substr) {
				return m.inst
			}
		}
	}
	return Unknown
}

func amount(lines []string) uint64 {
	for _, line := range lines {
		match := amountPattern.FindStringSubmatch(line)
		if match == nil {
			// A marker without a digit run does not stop the scan.
			continue
		}
		// A digit run that overflows uint64 fails the parse, and a failed
		// parse yields 0.
		v, err := strconv.ParseUint(match[2], 10, 64)
		if err != nil {
			return 0
		}
		return v
	}
	return 0
}

// Mutating reports whether the category has a per-instruction metrics
// counter (the five supply- or state-changing instructions).
func Mutating(inst Instruction) bool {
	switch inst {
	case Mint, Transfer, Burn, Freeze, Thaw:
		return true
	}
	return false
}
