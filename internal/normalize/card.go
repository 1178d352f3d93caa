package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scriptdeck/internal/alerting"
	"scriptdeck/internal/history"
	"scriptdeck/internal/identity"
	"scriptdeck/internal/models"
)

// DefaultCardTitle is used when a stored card has no usable title.
const DefaultCardTitle = "Untitled"

var businessIDPattern = regexp.MustCompile(`^G([1-9][0-9]*)-C([1-9][0-9]*)$`)

// cardPass tracks per-migration state: business ids handed out so far and
// the next sequence number per group. One pass covers one payload, so
// synthesized ids never collide with anything seen earlier in the same
// migration.
type cardPass struct {
	byName   map[string]models.Group
	fallback models.Group
	usedBIDs map[string]bool
	nextSeq  map[int]int
	ids      identity.Source
}

func newCardPass(groups []models.Group, ids identity.Source) *cardPass {
	pass := &cardPass{
		byName:   make(map[string]models.Group, len(groups)),
		usedBIDs: map[string]bool{},
		nextSeq:  map[int]int{},
		ids:      ids,
	}
	for _, g := range groups {
		pass.byName[g.Name] = g
	}
	if len(groups) > 0 {
		pass.fallback = groups[0]
	}
	return pass
}

// normalizeCard builds one canonical card from a raw record.
func (p *cardPass) normalizeCard(m map[string]any) models.Card {
	group := p.resolveGroup(stringOr(m["group"], ""))
	kind := oneOf(stringOr(m["kind"], ""), models.CardKinds, models.DefaultCardKind)

	card := models.Card{
		ID:       strings.TrimSpace(stringOr(m["id"], "")),
		Title:    strings.TrimSpace(stringOr(m["title"], "")),
		Group:    group.Name,
		Kind:     kind,
		Script:   Script(m["script"]),
		Mapping:  Mapping(kind, m["mapping"]),
		Refresh:  Refresh(m["refresh"]),
		Position: Position(m["position"]),
		Alert:    alerting.Normalize(m["alert"]),
	}

	if card.ID == "" {
		card.ID = p.ids.NextID()
	}
	if card.Title == "" {
		card.Title = DefaultCardTitle
	}

	card.BusinessID = p.businessID(stringOr(m["business_id"], ""), GroupNumber(group.ID))
	card.LastResult = lastResult(m["last_result"])

	if rawHistory, present := m["history"]; present && rawHistory != nil {
		ring := history.Normalize(rawHistory)
		card.History = &ring
	}

	return card
}

func (p *cardPass) resolveGroup(name string) models.Group {
	if g, ok := p.byName[strings.TrimSpace(name)]; ok {
		return g
	}
	return p.fallback
}

// businessID keeps a stored id only when it matches the G<n>-C<m> pattern,
// its group number matches the card's resolved group, and no earlier card
// in this pass already claimed it. Anything else gets the next unused
// sequence number within the group.
func (p *cardPass) businessID(stored string, groupNum int) string {
	stored = strings.TrimSpace(stored)
	if match := businessIDPattern.FindStringSubmatch(stored); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil && n == groupNum && !p.usedBIDs[stored] {
			p.usedBIDs[stored] = true
			if seq, seqErr := strconv.Atoi(match[2]); seqErr == nil && seq > p.nextSeq[groupNum] {
				p.nextSeq[groupNum] = seq
			}
			return stored
		}
	}

	seq := p.nextSeq[groupNum]
	for {
		seq++
		candidate := fmt.Sprintf("G%d-C%d", groupNum, seq)
		if !p.usedBIDs[candidate] {
			p.usedBIDs[candidate] = true
			p.nextSeq[groupNum] = seq
			return candidate
		}
	}
}

func lastResult(raw any) *models.CardResult {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	value, ok := m["value"].(string)
	if !ok || value == "" {
		return nil
	}
	return &models.CardResult{
		Value:     value,
		Unit:      stringOr(m["unit"], ""),
		Timestamp: int64(numberOr(m["timestamp"], 0)),
	}
}
