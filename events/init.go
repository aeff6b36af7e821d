package events

import "github.com/r3labs/sse/v2"

const PlayingStream = "playing"

var Server *sse.Server

func Init() {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(PlayingStream)
	Server = server
}

// PublishPlaying pushes a snapshot payload to anyone listening on /events.
func PublishPlaying(payload []byte) {
	if Server == nil {
		return
	}
	Server.Publish(PlayingStream, &sse.Event{Data: payload})
}
