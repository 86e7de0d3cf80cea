package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	Date   string `csv:"利用日"`
	Name   string `csv:"利用店名・商品名"`
	Amount string `csv:"利用金額"`
}

func TestUnmarshalRows_TrimsHeaderAndToleratesRaggedRows(t *testing.T) {
	input := " 利用日 ,利用店名・商品名 , 利用者,利用金額\n" +
		"2024/01/20,スターバックス,本人,500円\n" +
		"2024/01/21,ローソン\n" +
		"2024/01/22,\"東京, 丸の内\",本人,\"1,200\",extra\n"

	rows, err := UnmarshalRows[testRow](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, testRow{Date: "2024/01/20", Name: "スターバックス", Amount: "500円"}, rows[0])
	assert.Equal(t, testRow{Date: "2024/01/21", Name: "ローソン"}, rows[1])
	assert.Equal(t, "東京, 丸の内", rows[2].Name)
	assert.Equal(t, "1,200", rows[2].Amount)
}

func TestUnmarshalRows_HeaderOnly(t *testing.T) {
	rows, err := UnmarshalRows[testRow](strings.NewReader("利用日,利用店名・商品名,利用金額\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUnmarshalRows_Empty(t *testing.T) {
	rows, err := UnmarshalRows[testRow](strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHeaderTrimmingReader_OnlyTrimsFirstRecord(t *testing.T) {
	r := NewHeaderTrimmingReader(strings.NewReader(" a , b \n c , d \n"))

	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {" c ", " d "}}, records)
}

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("5334-91**-****-****,VISA\n2024/01/15,セブンイレブン,1500,1,1,1500\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[0], 2)
	assert.Len(t, records[1], 6)
}

func TestCell(t *testing.T) {
	record := []string{"a", "b"}
	assert.Equal(t, "b", Cell(record, 1))
	assert.Equal(t, "", Cell(record, 2))
	assert.Equal(t, "", Cell(record, -1))
}
