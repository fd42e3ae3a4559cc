package versions

import "github.com/Masterminds/semver/v3"

// IsNewerVersion reports whether candidate is strictly greater than current.
// Semantic versions are compared as such; anything else falls back to
// lexicographic comparison.
func IsNewerVersion(candidate, current string) bool {
	candidateSemver, errCandidate := semver.NewVersion(candidate)
	currentSemver, errCurrent := semver.NewVersion(current)

	if errCandidate != nil || errCurrent != nil {
		return candidate > current
	}

	return candidateSemver.GreaterThan(currentSemver)
}

// IsDowngrade reports whether moving a source from the previous version to the
// next one goes backwards. Unset versions are never a downgrade.
func IsDowngrade(previous, next string) bool {
	if previous == "" || next == "" {
		return false
	}
	return IsNewerVersion(previous, next)
}
