// Package mqtt publishes rendered light state to an MQTT broker.
//
// Every light gets a retained state topic:
//
//	<prefix>/<group>/<index>/state
//
// carrying a JSON document with the light's output color. A status topic
// under <prefix>/status announces online and offline with a last will.
// Publishing happens on a background goroutine fed by a bounded buffer, so
// the player never waits on the broker; when the buffer is full updates
// are dropped and counted.
package mqtt
