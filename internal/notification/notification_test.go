package notification

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerNotifierWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Send(context.Background(), Message{Kind: KindGiftCoupon, Destination: "u-1", Body: "GIFTABC123"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "kind=gift_coupon")
	require.Contains(t, buf.String(), "user_id=u-1")

	var nilNotifier *LoggerNotifier
	require.NoError(t, nilNotifier.Send(context.Background(), Message{}))
}
