// SPDX-License-Identifier: MIT

package covariance

// Propagation hooks for arithmetic between uncertain quantities. Covariance
// propagation is not implemented: every hook returns (nil, nil) so callers
// can detect "no propagated uncertainty" without an error path.

// PropagateAdd returns the uncertainty of a sum; not implemented.
func (c *Covariance) PropagateAdd(other *Covariance, correlation float64) (*Covariance, error) {
	return nil, nil
}

// PropagateSubtract returns the uncertainty of a difference; not implemented.
func (c *Covariance) PropagateSubtract(other *Covariance, correlation float64) (*Covariance, error) {
	return nil, nil
}

// PropagateMultiply returns the uncertainty of a product; not implemented.
func (c *Covariance) PropagateMultiply(other *Covariance, correlation float64) (*Covariance, error) {
	return nil, nil
}

// PropagateDivide returns the uncertainty of a quotient; not implemented.
func (c *Covariance) PropagateDivide(other *Covariance, correlation float64) (*Covariance, error) {
	return nil, nil
}

// SquareUnit converts a data unit into the matching covariance unit:
// "m" -> "m2", "m/s" -> "(m/s)2". An empty unit stays empty.
func SquareUnit(dataUnit string) string {
	switch {
	case dataUnit == "":
		return ""
	case isSimpleUnit(dataUnit):
		return dataUnit + "2"
	default:
		return "(" + dataUnit + ")2"
	}
}

func isSimpleUnit(u string) bool {
	for _, r := range u {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}

	return true
}
