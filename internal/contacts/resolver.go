// Package contacts resolves executive emails for a company through an
// external people search-and-enrichment service.
package contacts

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

// Title synonym lists, ordered by preference. Scoring compares candidate
// titles against these.
var (
	ceoTitles = []string{"CEO", "Chief Executive Officer", "Founder", "Co-Founder"}
	cmoTitles = []string{"CMO", "Chief Marketing Officer", "VP Marketing", "Vice President Marketing", "Head of Marketing"}
)

// Resolver looks up CEO and CMO emails. It never fails: every internal
// error degrades to an absent contact and a diagnostic log line.
type Resolver struct {
	directory funding.Directory
	logger    *zap.Logger
}

// New constructs a Resolver over the given people directory.
func New(directory funding.Directory, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		directory: directory,
		logger:    logger,
	}
}

// Resolve runs the CEO and CMO lookups concurrently and waits for both.
// A sentinel or empty company name skips resolution entirely, as does a
// missing directory.
func (r *Resolver) Resolve(ctx context.Context, companyName string) funding.Contacts {
	if r.directory == nil || skipCompany(companyName) {
		return funding.Contacts{}
	}

	var contacts funding.Contacts
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		contacts.CEOEmail = r.resolveRole(ctx, companyName, "CEO", ceoTitles)
	}()
	go func() {
		defer wg.Done()
		contacts.CMOEmail = r.resolveRole(ctx, companyName, "CMO", cmoTitles)
	}()
	wg.Wait()
	return contacts
}

func skipCompany(name string) bool {
	switch strings.TrimSpace(name) {
	case "", funding.SentinelNotFound, funding.SentinelExtractionFailed:
		return true
	}
	return false
}

// resolveRole searches, scores, and enriches one role. Empty string means
// the role could not be resolved to a verified email.
func (r *Resolver) resolveRole(ctx context.Context, org, role string, titles []string) string {
	candidates, err := r.directory.SearchByOrgAndTitles(ctx, org, titles)
	if err != nil {
		r.logger.Warn("people search failed",
			zap.String("company", org), zap.String("role", role), zap.Error(err))
		return ""
	}
	best, ok := pickBest(candidates, titles)
	if !ok {
		r.logger.Debug("no candidate for role",
			zap.String("company", org), zap.String("role", role))
		return ""
	}

	email, err := r.directory.Enrich(ctx, best.FirstName, best.LastName, org)
	if err != nil {
		r.logger.Warn("enrichment failed",
			zap.String("company", org), zap.String("role", role), zap.Error(err))
		return ""
	}
	if email == "" {
		r.logger.Debug("enrichment returned no email",
			zap.String("company", org), zap.String("role", role))
	}
	return email
}

// pickBest scores every candidate's title against the synonym list and
// returns the highest scorer. Ties keep search-result order.
func pickBest(candidates []funding.ExecutiveCandidate, titles []string) (funding.ExecutiveCandidate, bool) {
	var best funding.ExecutiveCandidate
	found := false
	for _, c := range candidates {
		c.MatchScore = scoreTitle(c.Title, titles)
		if !found || c.MatchScore > best.MatchScore {
			best = c
			found = true
		}
	}
	return best, found
}

// scoreTitle rates a candidate title: exact case-insensitive match 100,
// substring match 80, anything else 50.
func scoreTitle(title string, titles []string) int {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, syn := range titles {
		if t == strings.ToLower(syn) {
			return 100
		}
	}
	for _, syn := range titles {
		if strings.Contains(t, strings.ToLower(syn)) {
			return 80
		}
	}
	return 50
}
