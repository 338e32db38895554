package client

import (
	"errors"
	"fmt"

	"chain_insight/internal/domain/entity"
	"chain_insight/internal/infrastructure/httpclient"
)

// sourceUnavailable wraps a transport or decoding failure, keeping the upstream message when there is one.
func sourceUnavailable(source, op string, err error) error {
	msg := err.Error()
	var te *httpclient.TransportError
	if errors.As(err, &te) {
		msg = te.Message
	}
	return entity.NewSourceError(entity.KindSourceUnavailable, source, fmt.Sprintf("%s: %s", op, msg), err)
}

// upstreamRejected is used when the upstream answered but reported a failure in the body.
func upstreamRejected(source, op, message string) error {
	return entity.NewSourceError(entity.KindSourceUnavailable, source, fmt.Sprintf("%s: %s", op, message), nil)
}

func notFound(source, message string) error {
	return entity.NewSourceError(entity.KindNotFound, source, message, nil)
}
