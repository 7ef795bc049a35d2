package compound

import (
	"errors"
	"time"
)

// BlockAt block height at t, counting secondsPerBlock from the genesis unix time
func BlockAt(t time.Time, genesis, secondsPerBlock int64) (int64, error) {
	if secondsPerBlock <= 0 {
		return 0, errors.New("secondsPerBlock should be greater than zero")
	}

	seconds := t.Unix() - genesis
	if seconds < 0 {
		return 0, errors.New("time before genesis")
	}

	return seconds / secondsPerBlock, nil
}
