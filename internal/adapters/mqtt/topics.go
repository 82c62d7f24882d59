package mqtt

import (
	"strconv"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "lightshow"

// Topics builds the topic tree under Prefix.
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// LightState returns the state topic of one light.
func (t Topics) LightState(group string, index int) string {
	return t.prefix() + "/" + topicSegment(group) + "/" + strconv.Itoa(index) + "/state"
}

// Status returns the service status topic.
func (t Topics) Status() string {
	return t.prefix() + "/status"
}

// topicSegment strips characters MQTT reserves for wildcards and levels.
func topicSegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, s)
}
