package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"notoc/models"
	"notoc/nlp"
)

// ResolverConfig carries the externally supplied resolution tunables.
type ResolverConfig struct {
	// HighThreshold is the score at or above which a unique top candidate
	// resolves without asking the user.
	HighThreshold int
	// DisambigThreshold is the score a candidate must reach to be offered
	// for disambiguation at all.
	DisambigThreshold int
	// MaxCandidates caps the ranked list shown to the user.
	MaxCandidates int
}

// resolverService implements the ResolverService interface
type resolverService struct {
	uowFactory UnitOfWorkFactory
	scorer     Scorer
	cfg        ResolverConfig
}

// NewResolverService creates a new resolver service
func NewResolverService(uowFactory UnitOfWorkFactory, scorer Scorer, cfg ResolverConfig) ResolverService {
	return &resolverService{
		uowFactory: uowFactory,
		scorer:     scorer,
		cfg:        cfg,
	}
}

// Resolve maps a name fragment to a debtor, scoped to the user's own contact
// set. Priority: exact alias match, exact name match, then fuzzy scoring.
// Exact matching folds case and diacritics, so "Tuan" hits "Tuấn" without
// ever reaching the fuzzy path.
func (s *resolverService) Resolve(ctx context.Context, userID int64, fragment string) (*models.Resolution, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return &models.Resolution{}, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	debtors, err := uow.DebtorRepository().ListWithAliases(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debtors: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	folded := nlp.Fold(fragment)

	for _, debtor := range debtors {
		for _, alias := range debtor.Aliases {
			if nlp.Fold(alias.Name) == folded {
				return &models.Resolution{Debtor: debtor, Match: models.MatchKindAlias}, nil
			}
		}
	}
	for _, debtor := range debtors {
		if nlp.Fold(debtor.Name) == folded {
			return &models.Resolution{Debtor: debtor, Match: models.MatchKindName}, nil
		}
	}

	candidates := s.scoreCandidates(fragment, debtors)
	if len(candidates) == 0 {
		return &models.Resolution{}, nil
	}

	top := candidates[0]
	uniqueTop := len(candidates) == 1 || candidates[1].Score < top.Score
	if top.Score >= s.cfg.HighThreshold && uniqueTop {
		return &models.Resolution{Debtor: top.Debtor, Match: models.MatchKindFuzzy}, nil
	}

	if len(candidates) > s.cfg.MaxCandidates {
		candidates = candidates[:s.cfg.MaxCandidates]
	}
	return &models.Resolution{Candidates: candidates}, nil
}

// scoreCandidates scores the fragment against every debtor's name and
// aliases, keeping each debtor's best score. The returned list is ranked by
// score descending; equal scores keep contact-set order so the ranking is
// deterministic.
func (s *resolverService) scoreCandidates(fragment string, debtors []*models.Debtor) []models.Candidate {
	var candidates []models.Candidate
	for _, debtor := range debtors {
		best := s.scorer.Score(fragment, debtor.Name)
		for _, alias := range debtor.Aliases {
			if score := s.scorer.Score(fragment, alias.Name); score > best {
				best = score
			}
		}
		if best >= s.cfg.DisambigThreshold {
			candidates = append(candidates, models.Candidate{Debtor: debtor, Score: best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// AddAlias binds a nickname to an existing debtor found by canonical name.
// Alias names are unique within the user's namespace after folding.
func (s *resolverService) AddAlias(ctx context.Context, userID int64, aliasName, debtorName string) (*models.Debtor, error) {
	aliasName = strings.TrimSpace(aliasName)
	if aliasName == "" {
		return nil, fmt.Errorf("alias name must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	debtors, err := uow.DebtorRepository().ListWithAliases(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debtors: %w", err)
	}

	foldedAlias := nlp.Fold(aliasName)
	foldedName := nlp.Fold(strings.TrimSpace(debtorName))

	var target *models.Debtor
	for _, debtor := range debtors {
		if nlp.Fold(debtor.Name) == foldedName {
			target = debtor
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("debtor %q: %w", debtorName, ErrNotFound)
	}

	for _, debtor := range debtors {
		for _, alias := range debtor.Aliases {
			if nlp.Fold(alias.Name) == foldedAlias {
				return nil, fmt.Errorf("alias %q: %w", aliasName, ErrAliasTaken)
			}
		}
	}

	if _, err := uow.DebtorRepository().CreateAlias(ctx, target.ID, aliasName); err != nil {
		return nil, fmt.Errorf("failed to create alias: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return target, nil
}
