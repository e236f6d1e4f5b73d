package assets

import (
	"context"
	"fmt"
	"log"

	getter "github.com/hashicorp/go-getter"
)

// FetchPack downloads a texture pack into dst. src is any go-getter source:
// a local path, an http(s) archive, or a git:: URL with an optional //subdir.
func FetchPack(ctx context.Context, src, dst string) error {
	log.Printf("assets: fetching pack %s into %s", src, dst)
	if err := getter.GetAny(dst, src, getter.WithContext(ctx)); err != nil {
		return fmt.Errorf("fetch texture pack %s: %w", src, err)
	}
	log.Printf("assets: pack %s ready", dst)
	return nil
}
