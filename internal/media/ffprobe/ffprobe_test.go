package ffprobe

import "testing"

const sampleJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "avg_frame_rate": "60000/1001",
      "r_frame_rate": "60/1",
      "tags": {"rotate": "90"}
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio"
    }
  ],
  "format": {
    "filename": "bout.mp4",
    "nb_streams": 2,
    "duration": "120.500000",
    "format_name": "mov,mp4,m4a"
  }
}`

func TestDecode(t *testing.T) {
	result, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := result.DurationSeconds(); got != 120.5 {
		t.Fatalf("duration = %v, want 120.5", got)
	}
	fps := result.FrameRate()
	if fps < 59.9 || fps > 60.0 {
		t.Fatalf("frame rate = %v, want ~59.94", fps)
	}
	if got := result.Rotation(); got != 90 {
		t.Fatalf("rotation = %d, want 90", got)
	}
}

func TestRotationFromSideData(t *testing.T) {
	rotation := -90.0
	result := Result{Streams: []Stream{{
		CodecType: "video",
		SideData:  []SideData{{Rotation: &rotation}},
	}}}
	if got := result.Rotation(); got != 270 {
		t.Fatalf("rotation = %d, want 270", got)
	}
}

func TestFrameRateFallsBackToRawRate(t *testing.T) {
	result := Result{Streams: []Stream{{
		CodecType:    "video",
		AvgFrameRate: "0/0",
		RFrameRate:   "30/1",
	}}}
	if got := result.FrameRate(); got != 30 {
		t.Fatalf("frame rate = %v, want 30", got)
	}
}

func TestNoVideoStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if got := result.FrameRate(); got != 0 {
		t.Fatalf("frame rate = %v, want 0", got)
	}
	if got := result.Rotation(); got != 0 {
		t.Fatalf("rotation = %d, want 0", got)
	}
}
