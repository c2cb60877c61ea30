package merge

// Source identifies the tier a preference declaration was loaded from.
// The zero value is SourceBuiltIn.
type Source int

// Tiers in ascending precedence order. SourceSystemPolicy is reserved
// for enterprise policy support and is not yet produced by any loader.
const (
	SourceBuiltIn Source = iota
	SourceGlobalDefault
	SourceUser
	SourceSystemPolicy
)

// String reports the tier name used in rendered output and warnings.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceGlobalDefault:
		return "global-default"
	case SourceUser:
		return "user"
	case SourceSystemPolicy:
		return "system-policy"
	default:
		return "unknown"
	}
}

// Precedence reports the ordering rank of the tier. Higher ranks
// override lower ones during a merge.
func (s Source) Precedence() int { return int(s) }
