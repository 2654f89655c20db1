package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trafficJamRow() RawRow {
	return RawRow{
		{Label: "วันที่", Value: "26/04/2569"},
		{Label: "เวลา", Value: "08.30"},
		{Label: "กก.", Value: "กก.1"},
		{Label: "ส.ทล.", Value: "ส.ทล.2"},
		{Label: "สถานที่", Value: "ทล.1 กม.52+000 ขาเข้า"},
		{Label: "สภาพการจราจร", Value: "การจราจรติดขัด"},
	}
}

func TestAssembleEvent(t *testing.T) {
	t.Run("traffic row end to end", func(t *testing.T) {
		e := AssembleEvent(trafficJamRow(), SourceTraffic, 4)
		require.NotNil(t, e)

		assert.Equal(t, "traffic-4", e.ID)
		assert.Equal(t, "2026-04-26", e.Date)
		assert.Equal(t, "08:30", e.Time)
		assert.Equal(t, EpochMillis("2026-04-26", "08:30"), e.Timestamp)
		assert.NotZero(t, e.Timestamp)
		assert.Equal(t, "1", e.Division)
		assert.Equal(t, "2", e.Station)
		assert.Equal(t, CategoryTrafficJam, e.Category)
		assert.Equal(t, "1", e.Road)
		assert.Equal(t, "52+000", e.Km)
		assert.Equal(t, DirectionInbound, e.Direction)
		assert.Equal(t, SourceTraffic, e.SourceFormat)
		assert.Nil(t, e.Lat)
		assert.Nil(t, e.Lng)
	})

	t.Run("combined timestamp column", func(t *testing.T) {
		row := RawRow{
			{Label: "วันที่และเวลา", Value: "01/01/2569 14.30"},
			{Label: "สถานที่", Value: "ทล.9 กม.5 ขาออก"},
		}
		e := AssembleEvent(row, SourceTraffic, 0)
		require.NotNil(t, e)
		assert.Equal(t, "2026-01-01", e.Date)
		assert.Equal(t, "14:30", e.Time)
	})

	t.Run("unparsable time keeps row with sentinel", func(t *testing.T) {
		row := trafficJamRow()
		row[1].Value = "ช่วงเช้า 9 โมง"
		e := AssembleEvent(row, SourceTraffic, 0)
		require.NotNil(t, e)
		assert.Equal(t, "09:00", NormalizeTime("9:00"))
		assert.Equal(t, "00:00", e.Time)
	})

	t.Run("header echo row dropped", func(t *testing.T) {
		row := RawRow{
			{Label: "วันที่", Value: "วันที่"},
			{Label: "เวลา", Value: "เวลา"},
			{Label: "สถานที่", Value: "สถานที่"},
		}
		assert.Nil(t, AssembleEvent(row, SourceTraffic, 0))
	})

	t.Run("row without any digits dropped", func(t *testing.T) {
		row := RawRow{
			{Label: "วันที่", Value: "ไม่ทราบ"},
			{Label: "เวลา", Value: "-"},
			{Label: "สถานที่", Value: "ทางหลวง"},
		}
		assert.Nil(t, AssembleEvent(row, SourceTraffic, 0))
	})

	t.Run("unparsable date dropped", func(t *testing.T) {
		row := trafficJamRow()
		row[0].Value = "32/13/2569"
		assert.Nil(t, AssembleEvent(row, SourceTraffic, 0))
	})

	t.Run("no location dropped", func(t *testing.T) {
		row := RawRow{
			{Label: "วันที่", Value: "26/04/2569"},
			{Label: "เวลา", Value: "08:30"},
			{Label: "สภาพการจราจร", Value: "คล่องตัว"},
		}
		assert.Nil(t, AssembleEvent(row, SourceTraffic, 0))
	})

	t.Run("out of bounds coordinates degrade to nil", func(t *testing.T) {
		row := append(trafficJamRow(),
			Cell{Label: "ละติจูด", Value: "31.02"},
			Cell{Label: "ลองจิจูด", Value: "-98.44"},
		)
		e := AssembleEvent(row, SourceTraffic, 0)
		require.NotNil(t, e)
		assert.Nil(t, e.Lat)
		assert.Nil(t, e.Lng)
	})
}

func TestAssembleEvents_Idempotent(t *testing.T) {
	rows := []RawRow{
		trafficJamRow(),
		{{Label: "วันที่", Value: "ไม่มี"}}, // dropped
		trafficJamRow(),
	}

	first := AssembleEvents(rows, SourceTraffic)
	second := AssembleEvents(rows, SourceTraffic)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	// IDs reflect the source row index, not the surviving position.
	assert.Equal(t, "traffic-0", first[0].ID)
	assert.Equal(t, "traffic-2", first[1].ID)
}

func TestAssemble_EndToEndScenario(t *testing.T) {
	safetyRows := []RawRow{{
		{Label: "วันที่", Value: "26/04/2569"},
		{Label: "เวลา", Value: "15.10"},
		{Label: "กก.", Value: "6"},
		{Label: "ส.ทล.", Value: "1"},
		{Label: "จุดเกิดเหตุ", Value: "ทล.2 กม.39+500 ขาเข้า"},
		{Label: "เหตุการณ์สำคัญ", Value: "รถเก๋งชนท้ายรถบรรทุก"},
		{Label: "สาเหตุ", Value: "หลับใน"},
	}}
	enforcementRows := []RawRow{{
		{Label: "วันที่", Value: "26/04/2569"},
		{Label: "เวลา", Value: "22:00"},
		{Label: "กก.", Value: "2"},
		{Label: "ส.ทล.", Value: "3"},
		{Label: "สถานที่", Value: "ทล.304 กม.20 ขาออก"},
		{Label: "ผลการจับกุม", Value: "จับกุมผู้ขับขี่เมาสุรา"},
		{Label: "จำนวน (ราย)", Value: "2 ราย"},
	}}
	trafficRows := []RawRow{{
		{Label: "วันที่", Value: "26/04/2569"},
		{Label: "เวลา", Value: "17:00"},
		{Label: "กก.", Value: "8"},
		{Label: "ส.ทล.", Value: "3"},
		{Label: "ช่องทางพิเศษ", Value: "เปิดช่องทางพิเศษ ขาออก กม.10"},
	}}

	accident := AssembleEvents(safetyRows, SourceSafety)
	arrest := AssembleEvents(enforcementRows, SourceEnforcement)
	lane := AssembleEvents(trafficRows, SourceTraffic)

	require.Len(t, accident, 1)
	require.Len(t, arrest, 1)
	require.Len(t, lane, 1)

	assert.Equal(t, CategoryAccident, accident[0].Category)
	assert.Equal(t, "รถเก๋งชนท้ายรถบรรทุก (หลับใน)", accident[0].Detail)

	assert.Equal(t, CategoryArrest, arrest[0].Category)
	assert.Equal(t, 2, arrest[0].DrunkDriverCount)

	assert.Equal(t, CategorySpecialLane, lane[0].Category)
	// Division 8 station 3 patrols motorway M6 exclusively.
	assert.Equal(t, "M6", lane[0].Road)
}
