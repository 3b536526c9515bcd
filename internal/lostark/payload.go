package lostark

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/engine"
)

// Stat types that carry attack power, used when CombatPower is missing.
var attackPowerStats = []string{"공격력", "Attack Power"}

// Number is a numeric field the API sends either as a JSON number or as a
// string with thousands separators ("1,743.76").
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	*n = Number(data)
	return nil
}

// Float parses the value. Blank is zero; anything unparsable is zero plus a
// ValidationError.
func (n Number) Float(field string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(string(n), ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, engine.ValidationError{Field: field, Value: string(n), Err: err}
	}
	return v, nil
}

type statPayload struct {
	Type  string `json:"Type"`
	Value Number `json:"Value"`
}

type profilePayload struct {
	CharacterName      string        `json:"CharacterName"`
	ServerName         string        `json:"ServerName"`
	CharacterClassName string        `json:"CharacterClassName"`
	ItemAvgLevel       Number        `json:"ItemAvgLevel"`
	CombatPower        Number        `json:"CombatPower"`
	Stats              []statPayload `json:"Stats"`
}

type siblingPayload struct {
	CharacterName      string `json:"CharacterName"`
	ServerName         string `json:"ServerName"`
	CharacterClassName string `json:"CharacterClassName"`
	ItemAvgLevel       Number `json:"ItemAvgLevel"`
}

func (p profilePayload) toProfile(log *zap.Logger) engine.Profile {
	out := engine.Profile{
		Name:        strings.TrimSpace(p.CharacterName),
		Server:      p.ServerName,
		Class:       p.CharacterClassName,
		ItemLevel:   parseLogged(log, characterField(p.CharacterName), "ItemAvgLevel", p.ItemAvgLevel),
		CombatPower: parseLogged(log, characterField(p.CharacterName), "CombatPower", p.CombatPower),
	}
	if out.CombatPower == 0 {
		out.CombatPower = p.attackPower(log)
	}
	return out
}

func (p profilePayload) attackPower(log *zap.Logger) float64 {
	for _, st := range p.Stats {
		for _, t := range attackPowerStats {
			if st.Type == t {
				return parseLogged(log, characterField(p.CharacterName), "Stats."+t, st.Value)
			}
		}
	}
	return 0
}

func (s siblingPayload) toEntry(log *zap.Logger) engine.RosterEntry {
	return engine.RosterEntry{
		Name:      strings.TrimSpace(s.CharacterName),
		Server:    s.ServerName,
		Class:     s.CharacterClassName,
		ItemLevel: parseLogged(log, characterField(s.CharacterName), "ItemAvgLevel", s.ItemAvgLevel),
	}
}

func characterField(name string) zap.Field { return zap.String("character", strings.TrimSpace(name)) }

func parseLogged(log *zap.Logger, who zap.Field, field string, n Number) float64 {
	v, err := n.Float(field)
	if err != nil {
		log.Warn("unparsable stat, using zero", who, zap.Error(err))
	}
	return v
}
