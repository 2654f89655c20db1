package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLocation_ExplicitColumnsWin(t *testing.T) {
	row := RawRow{
		{Label: "ทางหลวงหมายเลข", Value: "35"},
		{Label: "กม.", Value: "12+400"},
		{Label: "ทิศทาง", Value: "ขาออก"},
		{Label: "สถานที่", Value: "ทางหลวงหมายเลข 32 กม.99 ขาเข้า"},
	}

	loc, ok := ExtractLocation(row, "2", "1")
	require.True(t, ok)
	assert.Equal(t, "35", loc.Road)
	assert.Equal(t, "12+400", loc.Km)
	assert.Equal(t, DirectionOutbound, loc.Direction)
}

func TestExtractLocation_FreeText(t *testing.T) {
	tests := []struct {
		name      string
		place     string
		road      string
		km        string
		direction string
	}{
		{
			"route phrase with km marker",
			"ทางหลวงหมายเลข 32 กม.39+500 ขาเข้า",
			"32", "39+500", DirectionInbound,
		},
		{
			"abbreviated route",
			"ทล.1 (52+300) ขาออก ท้ายแถวยาว",
			"1", "52+300", DirectionOutbound,
		},
		{
			"motorway shorthand",
			"M6 กม.105 มุ่งหน้า โคราช",
			"M6", "105", "โคราช",
		},
		{
			"motorway word form",
			"มอเตอร์เวย์ 7 ขาออก กม.21",
			"M7", "21", DirectionOutbound,
		},
		{
			"leading road prefix",
			"304/ขาเข้า 78+200",
			"304", "78+200", DirectionInbound,
		},
		{
			"road only",
			"สาย 331 หน้าด่านเก็บเงิน",
			"331", Unspecified, Unspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := RawRow{{Label: "สถานที่เกิดเหตุ", Value: tt.place}}
			loc, ok := ExtractLocation(row, "2", "1")
			require.True(t, ok)
			assert.Equal(t, tt.road, loc.Road)
			assert.Equal(t, tt.km, loc.Km)
			assert.Equal(t, tt.direction, loc.Direction)
		})
	}
}

func TestExtractLocation_MotorwayOverride(t *testing.T) {
	tests := []struct {
		station string
		road    string
	}{
		{"1", "7"},
		{"2", "9"},
		{"3", "M6"},
		{"4", "M81"},
	}

	for _, tt := range tests {
		t.Run("station "+tt.station, func(t *testing.T) {
			// Free text naming another road entirely must not win.
			row := RawRow{{Label: "สถานที่", Value: "ทางหลวงหมายเลข 1 กม.10"}}
			loc, ok := ExtractLocation(row, "8", tt.station)
			require.True(t, ok)
			assert.Equal(t, tt.road, loc.Road)
		})
	}

	t.Run("override only applies to division 8", func(t *testing.T) {
		row := RawRow{{Label: "สถานที่", Value: "ทางหลวงหมายเลข 1 กม.10"}}
		loc, ok := ExtractLocation(row, "7", "2")
		require.True(t, ok)
		assert.Equal(t, "1", loc.Road)
	})

	t.Run("unknown division 8 station keeps extraction", func(t *testing.T) {
		row := RawRow{{Label: "สถานที่", Value: "ทางหลวงหมายเลข 1 กม.10"}}
		loc, ok := ExtractLocation(row, "8", "9")
		require.True(t, ok)
		assert.Equal(t, "1", loc.Road)
	})
}

func TestExtractLocation_DropRule(t *testing.T) {
	t.Run("no road and no location text drops", func(t *testing.T) {
		row := RawRow{{Label: "เวลา", Value: "14:30"}}
		_, ok := ExtractLocation(row, "2", "1")
		assert.False(t, ok)
	})

	t.Run("location text without road number is kept", func(t *testing.T) {
		row := RawRow{{Label: "สถานที่", Value: "หน้าตลาดกลางบางใหญ่"}}
		loc, ok := ExtractLocation(row, "2", "1")
		assert.True(t, ok)
		assert.Equal(t, Unspecified, loc.Road)
	})
}

func TestParseCoordinates(t *testing.T) {
	coordRow := func(lat, lng string) RawRow {
		return RawRow{
			{Label: "ละติจูด", Value: lat},
			{Label: "ลองจิจูด", Value: lng},
		}
	}

	t.Run("inside thailand", func(t *testing.T) {
		lat, lng := ParseCoordinates(coordRow("14.0215", "100.5432"))
		require.NotNil(t, lat)
		require.NotNil(t, lng)
		assert.InDelta(t, 14.0215, *lat, 0.0001)
		assert.InDelta(t, 100.5432, *lng, 0.0001)
	})

	t.Run("outside bounding box", func(t *testing.T) {
		lat, lng := ParseCoordinates(coordRow("51.5", "-0.12"))
		assert.Nil(t, lat)
		assert.Nil(t, lng)
	})

	t.Run("swapped digits outside box", func(t *testing.T) {
		lat, lng := ParseCoordinates(coordRow("100.5432", "14.0215"))
		assert.Nil(t, lat)
		assert.Nil(t, lng)
	})

	t.Run("missing columns", func(t *testing.T) {
		lat, lng := ParseCoordinates(RawRow{{Label: "เวลา", Value: "10:00"}})
		assert.Nil(t, lat)
		assert.Nil(t, lng)
	})

	t.Run("garbage values", func(t *testing.T) {
		lat, lng := ParseCoordinates(coordRow("สะพาน", "100.1"))
		assert.Nil(t, lat)
		assert.Nil(t, lng)
	})
}
