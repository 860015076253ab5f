package engine

import "testing"

func TestOutputFileName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		p     Params
		want  string
	}{
		{
			name:  "language name suffix",
			input: "/media/video.mp4",
			p:     Params{Language: "english"},
			want:  "video.english.txt",
		},
		{
			name:  "language code suffix",
			input: "/media/video.mp4",
			p:     Params{Language: "english", UseLanguageCode: true},
			want:  "video.en.txt",
		},
		{
			name:  "translation is always english",
			input: "/media/video.mkv",
			p:     Params{Language: "japanese", TranslateToEnglish: true},
			want:  "video.english.txt",
		},
		{
			name:  "translation with code suffix",
			input: "/media/video.mkv",
			p:     Params{Language: "japanese", TranslateToEnglish: true, UseLanguageCode: true},
			want:  "video.en.txt",
		},
		{
			name:  "autodetect omits suffix",
			input: "/media/video.mp4",
			p:     Params{},
			want:  "video.txt",
		},
		{
			name:  "unknown language keeps name suffix even in code mode",
			input: "/media/video.mp4",
			p:     Params{Language: "klingon", UseLanguageCode: true},
			want:  "video.klingon.txt",
		},
		{
			name:  "dotfile-like input",
			input: "/media/.mp4",
			p:     Params{Language: "english"},
			want:  "transcript.english.txt",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OutputFileName(tc.input, tc.p); got != tc.want {
				t.Fatalf("OutputFileName(%q, %+v) = %q, want %q", tc.input, tc.p, got, tc.want)
			}
		})
	}
}
