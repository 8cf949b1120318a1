package infrastructure

import (
	"context"
	"image"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/segmentio/kafka-go"
)

type (
	RequestSender interface {
		SendRequest(ctx context.Context, req dto.GenerationRequest) error
	}

	// EventsQueue is the consuming side of the work queue. Ack drops a message for
	// good, Nack schedules it for redelivery.
	EventsQueue interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		Ack(ctx context.Context, msg kafka.Message) error
		Nack(ctx context.Context, msg kafka.Message, cause error) error
		Close() error
	}

	ImageProcessor interface {
		Decode(data []byte) (image.Image, error)
		Thumbnail(img image.Image) ([]byte, error)
	}
)
