package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/typechart"
)

// DefaultParallel bounds concurrent species requests in Profiles.
const DefaultParallel = 8

type pokemonResponse struct {
	Name  string `json:"name"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

var apiStatKeys = map[string]model.StatKey{
	"hp":              model.HP,
	"attack":          model.Attack,
	"defense":         model.Defense,
	"special-attack":  model.SpecialAttack,
	"special-defense": model.SpecialDefense,
	"speed":           model.Speed,
}

// /pokemon/{name}
func (c *Client) Pokemon(ctx context.Context, apiName string, force bool) ([]byte, error) {
	return c.FetchRaw(ctx,
		"/pokemon/"+apiName,
		fmt.Sprintf("pokemon/%s.json", apiName),
		force,
	)
}

// SpeciesProfile returns the types and base stats of a species by its usage
// name (e.g. "Great Tusk"). If the exact form is unknown the base species is
// tried before giving up with ErrSpeciesNotFound.
func (c *Client) SpeciesProfile(ctx context.Context, name string) (model.SpeciesProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SpeciesProfile{}, fmt.Errorf("%w: empty name", ErrSpeciesNotFound)
	}
	if c.profiles != nil {
		if p, ok := c.profiles.Get(name); ok {
			return p, nil
		}
	}

	candidates := []string{APIName(name)}
	if base := baseName(name); base != candidates[0] {
		candidates = append(candidates, base)
	}
	var body []byte
	var err error
	for _, apiName := range candidates {
		body, err = c.Pokemon(ctx, apiName, false)
		if !isNotFound(err) {
			break
		}
	}
	if isNotFound(err) {
		return model.SpeciesProfile{}, fmt.Errorf("%w: %s (tried %s)", ErrSpeciesNotFound, name, strings.Join(candidates, ", "))
	}
	if err != nil {
		return model.SpeciesProfile{}, err
	}

	p, err := decodeProfile(name, body)
	if err != nil {
		return model.SpeciesProfile{}, err
	}
	if t, ok := FormType(name); ok {
		p.Types = []typechart.Type{t}
	}
	if c.profiles != nil {
		c.profiles.Add(name, p)
	}
	return p, nil
}

func decodeProfile(name string, body []byte) (model.SpeciesProfile, error) {
	var resp pokemonResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.SpeciesProfile{}, fmt.Errorf("decode %s: %w", name, err)
	}
	p := model.SpeciesProfile{Name: name}
	for _, t := range resp.Types {
		typ, err := typechart.ParseType(t.Type.Name)
		if err != nil {
			return model.SpeciesProfile{}, fmt.Errorf("%s: %w", name, err)
		}
		p.Types = append(p.Types, typ)
	}
	if len(p.Types) > 2 {
		p.Types = p.Types[:2]
	}
	for _, s := range resp.Stats {
		if key, ok := apiStatKeys[s.Stat.Name]; ok {
			p.BaseStats = p.BaseStats.Set(key, s.BaseStat)
		}
	}
	return p, nil
}

// Profiles looks up several species with at most parallel requests in
// flight. The result is aligned with names; the first failure cancels the
// rest.
func (c *Client) Profiles(ctx context.Context, names []string, parallel int) ([]model.SpeciesProfile, error) {
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	out := make([]model.SpeciesProfile, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, name := range names {
		g.Go(func() error {
			p, err := c.SpeciesProfile(ctx, name)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
