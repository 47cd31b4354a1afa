package urlx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		subs     map[string]string
		want     string
		wantErr  bool
	}{
		{
			name:     "single placeholder",
			template: "https://store.local/:userId",
			subs:     map[string]string{"userId": "u-1"},
			want:     "https://store.local/u-1",
		},
		{
			name:     "multiple placeholders",
			template: "https://store.local/:serviceSlug/:userId",
			subs:     map[string]string{"serviceSlug": "my-service", "userId": "u-1"},
			want:     "https://store.local/my-service/u-1",
		},
		{
			name:     "repeated placeholder",
			template: "/:id/copy/:id",
			subs:     map[string]string{"id": "42"},
			want:     "/42/copy/42",
		},
		{
			name:     "value is path escaped",
			template: "/:userId",
			subs:     map[string]string{"userId": "a/b c"},
			want:     "/a%2Fb%20c",
		},
		{
			name:     "no placeholders",
			template: "/submission",
			subs:     nil,
			want:     "/submission",
		},
		{
			name:     "missing substitution",
			template: "/:serviceSlug/:userId",
			subs:     map[string]string{"serviceSlug": "s"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.template, tt.subs)
			if tt.wantErr {
				require.Error(t, err)
				require.Empty(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
