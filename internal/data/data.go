// Package data ships the built-in weapon reference tables. Callers may use
// these records or supply their own; the rules never reach into this package.
package data

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

//go:embed weapons.yaml
var weaponsYAML []byte

type weaponFile struct {
	Weapons []entities.Weapon `yaml:"weapons"`
}

var (
	loadOnce sync.Once
	loadErr  error
	weapons  []entities.Weapon
	byID     map[string]*entities.Weapon
)

func load() {
	var file weaponFile
	if err := yaml.Unmarshal(weaponsYAML, &file); err != nil {
		loadErr = errors.Wrap(err, "parsing built-in weapon table")
		return
	}

	weapons = file.Weapons
	byID = make(map[string]*entities.Weapon, len(weapons))
	for i := range weapons {
		byID[weapons[i].ID] = &weapons[i]
	}
}

// Weapons returns the built-in weapon table
func Weapons() ([]entities.Weapon, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]entities.Weapon, len(weapons))
	copy(out, weapons)
	return out, nil
}

// WeaponByID returns the built-in weapon with the given id
func WeaponByID(id string) (*entities.Weapon, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	w, ok := byID[id]
	if !ok {
		return nil, errors.NotFoundf("weapon %q", id)
	}
	cp := *w
	return &cp, nil
}
