package history

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
)

func templateRecords() []model.Record {
	now := time.Now().UnixMilli()
	return []model.Record{
		{ID: "1", Source: "toastyd", Category: "error", Content: "disk\nfull", CreatedAt: now, DoneAt: now},
		{ID: "2", Source: "dbus:firefox", Category: "info", Content: "download finished", CreatedAt: now, DoneAt: now},
	}
}

func TestWriteTemplate(t *testing.T) {
	tmpl, err := ParseTemplate(`{{.Index}} {{.Category | upper}} {{.Content | oneline | truncate 10}}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, templateRecords(), tmpl))
	assert.Equal(t, "1 ERROR disk full\n2 INFO downloa...\n", buf.String())
}

func TestWriteTemplate_RecordMethods(t *testing.T) {
	tmpl, err := ParseTemplate(`{{.Source}}: {{.ContentTruncated 4}}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, templateRecords()[1:], tmpl))
	assert.Equal(t, "dbus:firefox: d...\n", buf.String())
}

func TestParseTemplate_Invalid(t *testing.T) {
	_, err := ParseTemplate(`{{.Content`)
	assert.Error(t, err)
}

func TestWrite_Dmenu(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, templateRecords(), FormatDmenu, 0))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "1 | ")
	assert.Contains(t, string(lines[0]), "| toastyd | disk full")
	assert.Contains(t, string(lines[1]), "| dbus:firefox | download finished")
}
