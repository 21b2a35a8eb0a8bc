package contexts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		typ          string
		value        Value
		wantTitle    string
		wantSubtitle string
		wantType     string
	}{
		{
			name:      "user title and id collide",
			typ:       "user",
			value:     MustParse(`{"email":"a@b.com","id":"a@b.com"}`),
			wantTitle: "a@b.com",
		},
		{
			name:         "user email with username",
			typ:          "user",
			value:        MustParse(`{"email":"a@b.com","id":"42","username":"ab"}`),
			wantTitle:    "a@b.com",
			wantSubtitle: "ab",
			wantType:     "Username",
		},
		{
			name:         "user ip before id",
			typ:          "user",
			value:        MustParse(`{"ip_address":"10.0.0.1","id":7}`),
			wantTitle:    "10.0.0.1",
			wantSubtitle: "7",
			wantType:     "ID",
		},
		{
			name:      "user username only",
			typ:       "user",
			value:     MustParse(`{"username":"ab"}`),
			wantTitle: "ab",
		},
		{
			name:         "darwin kernel banner",
			typ:          "os",
			value:        MustParse(`{"name":"Darwin","version":"Darwin Kernel Version 24.3.0: Thu Jan 2 20:24:24 PST 2025; root:xnu-11215.81.4~3/RELEASE_ARM64_T6030"}`),
			wantTitle:    "Darwin",
			wantSubtitle: "24.3.0 (RELEASE_ARM64_T6030)",
			wantType:     "Version",
		},
		{
			name:         "short os version untouched",
			typ:          "client_os",
			value:        MustParse(`{"name":"Windows","version":"10"}`),
			wantTitle:    "Windows",
			wantSubtitle: "10",
			wantType:     "Version",
		},
		{
			name:         "other long os version untouched",
			typ:          "os",
			value:        MustParse(`{"name":"Linux","version":"Linux 6.5.0-1016-azure #16~22.04.1-Ubuntu SMP"}`),
			wantTitle:    "Linux",
			wantSubtitle: "Linux 6.5.0-1016-azure #16~22.04.1-Ubuntu SMP",
			wantType:     "Version",
		},
		{
			name:         "os kernel fallback",
			typ:          "os",
			value:        MustParse(`{"name":"Linux","kernel_version":"6.5.0"}`),
			wantTitle:    "Linux",
			wantSubtitle: "6.5.0",
			wantType:     "Kernel",
		},
		{
			name:         "ruby runtime banner",
			typ:          "runtime",
			value:        MustParse(`{"name":"ruby","version":"ruby 3.2.6 (2024-10-30 revision 63aeb018eb) [arm64-darwin23]"}`),
			wantTitle:    "ruby",
			wantSubtitle: "3.2.6",
			wantType:     "Version",
		},
		{
			name:         "ruby patch level",
			typ:          "runtime",
			value:        MustParse(`{"name":"ruby","version":"ruby 2.6.10p210 (2022-04-12 revision 67958) [universal.arm64e-darwin24]"}`),
			wantTitle:    "ruby",
			wantSubtitle: "2.6.10p210",
			wantType:     "Version",
		},
		{
			name:      "runtime numeric version ignored",
			typ:       "runtime",
			value:     MustParse(`{"name":"node","version":18}`),
			wantTitle: "node",
		},
		{
			name:         "device mapped name with arch",
			typ:          "device",
			value:        MustParse(`{"model":"iPhone14,2","arch":"arm64e","name":"Jane's phone"}`),
			wantTitle:    "iPhone 13 Pro",
			wantSubtitle: "arm64e",
			wantType:     "Architecture",
		},
		{
			name:         "device unmapped model",
			typ:          "device",
			value:        MustParse(`{"model":"SM-G960U"}`),
			wantTitle:    "SM-G960U",
			wantSubtitle: "SM-G960U",
			wantType:     "Model",
		},
		{
			name:      "device name fallback",
			typ:       "device",
			value:     MustParse(`{"name":"build-agent"}`),
			wantTitle: "build-agent",
		},
		{
			name:         "gpu",
			typ:          "gpu",
			value:        MustParse(`{"name":"GeForce RTX 3080","vendor_name":"NVIDIA"}`),
			wantTitle:    "GeForce RTX 3080",
			wantSubtitle: "NVIDIA",
			wantType:     "Vendor",
		},
		{
			name:         "browser",
			typ:          "browser",
			value:        MustParse(`{"name":"Chrome","version":"120.0"}`),
			wantTitle:    "Chrome",
			wantSubtitle: "120.0",
			wantType:     "Version",
		},
		{
			name:  "no rule",
			typ:   "trace",
			value: MustParse(`{"trace_id":"abc"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.typ, tt.value)
			assert.Equal(t, tt.wantTitle, got.Title.String())
			assert.Equal(t, tt.wantSubtitle, got.Subtitle.String())
			assert.Equal(t, tt.wantType, got.SubtitleType)
		})
	}
}

func TestSummarize_NullsForUnknownTypes(t *testing.T) {
	got := Summarize("custom_widget", MustParse(`{"name":"x"}`))
	assert.False(t, got.Title.Defined())
	assert.False(t, got.Subtitle.Defined())
}

func TestDeviceName(t *testing.T) {
	assert.Equal(t, "", DeviceName(""))
	assert.Equal(t, "iPhone 15 Pro", DeviceName("iPhone16,1"))
	assert.Equal(t, "Pixel 8", DeviceName("Pixel 8"))
}
