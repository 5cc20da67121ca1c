package tradelog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"

	"bond-market-maker/internal/types"
)

// readFills skips lines that do not decode.
func readFills(p string) ([]types.Fill, error) {
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fills []types.Fill
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var fl types.Fill
		if err := json.Unmarshal(sc.Bytes(), &fl); err != nil {
			continue
		}
		fills = append(fills, fl)
	}
	return fills, sc.Err()
}
