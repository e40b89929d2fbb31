package enum

import (
	"encoding/json"
	"fmt"
)

// ScanState is the position of the scan screen in its resolve cycle
type ScanState int

const (
	ScanStateIdle          ScanState = 0
	ScanStateResolving     ScanState = 1
	ScanStateResolved      ScanState = 2
	ScanStateAwaitingRetry ScanState = 3
)

var scanStateNames = [...]string{"Idle", "Resolving", "Resolved", "AwaitingRetry"}

func (s ScanState) String() string {
	if s < 0 || int(s) >= len(scanStateNames) {
		return fmt.Sprintf("ScanState(%d)", int(s))
	}
	return scanStateNames[s]
}

// Latched reports whether a new scan must be refused in this state
func (s ScanState) Latched() bool {
	return s == ScanStateResolving || s == ScanStateResolved
}

func (s ScanState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ScanState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ScanState(i)
		return nil
	}
	for i, name := range scanStateNames {
		if name == str {
			*s = ScanState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown scan state %q", str)
}
