package character

import "strings"

// MatchTrigger returns the first of the character's triggers whose phrase
// is contained in the message, ignoring case. Triggers are checked in
// storage order and the first match wins; there is no scoring by phrase
// length or specificity. Returns nil when nothing matches.
func MatchTrigger(message string, c *Character) *Trigger {
	if c == nil || message == "" || len(c.Triggers) == 0 {
		return nil
	}

	content := strings.ToLower(message)
	for i := range c.Triggers {
		t := &c.Triggers[i]
		if t.Phrase == "" {
			continue
		}
		if strings.Contains(content, strings.ToLower(t.Phrase)) {
			return t
		}
	}
	return nil
}
