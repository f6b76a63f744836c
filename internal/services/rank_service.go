package services

import (
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/entities"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

// RequiredRank resolves the tier a pilot needs for a leg. An explicit
// rank-unlock tag wins when it names a real tier; otherwise the aircraft
// substring table decides. Partner sheets carry tags we do not control, so
// unknown tags fall through rather than erroring.
func RequiredRank(leg *entities.Leg) constants.RankTier {
	if leg.RankUnlock != "" {
		if idx, ok := constants.TierIndex(leg.RankUnlock); ok {
			return constants.RankLadder[idx].Tier
		}
	}
	return constants.RankFromAircraft(leg.Aircraft)
}

// CanFly reports whether a pilot of the given rank may fly a leg requiring
// requiredRank. Unknown tiers on either side fail closed.
func CanFly(pilotRank, requiredRank constants.RankTier) bool {
	pilotIdx, ok := constants.TierIndex(pilotRank)
	if !ok {
		return false
	}
	requiredIdx, ok := constants.TierIndex(requiredRank)
	if !ok {
		return false
	}
	return pilotIdx >= requiredIdx
}

// FirstBlockedLeg returns the first leg of the roster the pilot's rank does
// not cover, with the tier that leg needs. Nil when the whole roster is
// flyable.
func FirstBlockedLeg(pilotRank constants.RankTier, roster *gormModels.Roster) (*entities.Leg, constants.RankTier) {
	for i := range roster.Legs {
		required := RequiredRank(&roster.Legs[i])
		if !CanFly(pilotRank, required) {
			return &roster.Legs[i], required
		}
	}
	return nil, ""
}

// PromotionFor returns the tier a pilot's cumulative hours now earn. The
// second return is true only when that tier is above the current one; ranks
// never move down through this path even if hours somehow lag a manually
// assigned tier.
func PromotionFor(current constants.RankTier, totalHours float64) (constants.RankTier, bool) {
	earnedIdx := 0
	for i, spec := range constants.RankLadder {
		if totalHours >= spec.MinHours {
			earnedIdx = i
		}
	}

	currentIdx, ok := constants.TierIndex(current)
	if !ok {
		// Unranked pilots slot straight in at whatever their hours earn.
		return constants.RankLadder[earnedIdx].Tier, true
	}

	if earnedIdx > currentIdx {
		return constants.RankLadder[earnedIdx].Tier, true
	}
	return current, false
}

// NextRank returns the ladder entry directly above the current tier, or
// false when the pilot already holds the top tier or an unknown one.
func NextRank(current constants.RankTier) (constants.RankSpec, bool) {
	idx, ok := constants.TierIndex(current)
	if !ok || idx >= len(constants.RankLadder)-1 {
		return constants.RankSpec{}, false
	}
	return constants.RankLadder[idx+1], true
}
