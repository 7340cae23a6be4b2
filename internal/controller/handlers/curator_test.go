package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectSendText(t *testing.T) {
	require.Equal(t, "привет", directSendText("/to S123 привет", "S123"))
	require.Equal(t, "hi there", directSendText("/to S123 hi there", "S123"))
	require.Equal(t, "", directSendText("/to S123", "S123"))
}

func TestDirectSendTextCollapsesExtraSpacing(t *testing.T) {
	// Лишние пробелы вокруг идентификатора не протекают в текст,
	// и сам идентификатор в сообщение не попадает
	require.Equal(t, "hi", directSendText("/to  S123 hi", "S123"))
	require.Equal(t, "hi", directSendText("/to S123  hi", "S123"))
	require.Equal(t, "hi", directSendText("/to  123456  hi", "123456"))
}
