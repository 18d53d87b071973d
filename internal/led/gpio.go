package led

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseGPIO turns a pin label such as "D18", "GPIO18", "BCM18" or "18" into
// its BCM number.
func ParseGPIO(s string) (int, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for _, p := range []string{"GPIO", "BCM", "D"} {
		if strings.HasPrefix(u, p) {
			u = u[len(p):]
			break
		}
	}
	n, err := strconv.Atoi(u)
	if err != nil || n < 0 || n > 53 {
		return 0, fmt.Errorf("invalid gpio %q", s)
	}
	return n, nil
}
