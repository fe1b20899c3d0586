package samples

import (
	"time"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/render"
)

// PreloadTimeout bounds how long a script waits for a sample's assets.
const PreloadTimeout = 120 * time.Second

// preload loads every asset referenced by ids and holds the script until the
// batch completes, then calls ready on the main thread.
func preload(env *Env, ids []asset.Id, ready func(asset.BatchResult)) {
	list := asset.UniqueToLoad(env.Catalog, ids)
	env.Log.Debug("preloading assets", "count", len(list))
	env.Script.PauseWithTimeout(PreloadTimeout)
	env.Assets.LoadAssetsAsync(list, nil, func(res asset.BatchResult) {
		if len(res.Failed) > 0 {
			env.Log.Warn("some assets failed to load", "failed", len(res.Failed), "loaded", len(res.Loaded))
		}
		ready(res)
		env.Script.Resume()
	})
}

// failedIds maps the failed items of a batch back to asset ids.
func failedIds(res asset.BatchResult) map[asset.Id]bool {
	failed := make(map[asset.Id]bool, len(res.Failed))
	for _, item := range res.Failed {
		failed[asset.IdForPath(item.Path)] = true
	}
	return failed
}

// referencedIds lists the valid model and material ids of every instance.
func referencedIds(store *InstanceStore) []asset.Id {
	ids := make([]asset.Id, 0, 2*store.Len())
	for _, inst := range store.All() {
		if inst.Model.IsValid() {
			ids = append(ids, inst.Model)
		}
		if inst.Material.IsValid() {
			ids = append(ids, inst.Material)
		}
	}
	return ids
}

// acquireMeshes gives every instance whose model loaded a mesh. materialFor
// picks the material instance; it is not called when the material failed.
// Instances that already hold a mesh are left alone.
func acquireMeshes(env *Env, store *InstanceStore, failed map[asset.Id]bool, materialFor func(*Instance) *render.Material) int {
	acquired := 0
	for _, inst := range store.All() {
		if inst.Mesh.IsValid() || !inst.Model.IsValid() || failed[inst.Model] {
			continue
		}
		var mat *render.Material
		if inst.Material.IsValid() && !failed[inst.Material] {
			mat = materialFor(inst)
		}
		inst.MaterialInstance = mat
		inst.Mesh = env.Arena.AcquireMesh(render.MeshDescriptor{Model: inst.Model, Material: mat})
		if err := env.Scene.SetTransform(inst.Mesh, inst.Transform); err != nil {
			env.Log.Error("cannot place mesh", "cell", inst.Cell, "err", err)
		}
		acquired++
	}
	return acquired
}

// sharedMaterial is a materialFor that shares one instance per asset.
func sharedMaterial(env *Env) func(*Instance) *render.Material {
	return func(inst *Instance) *render.Material {
		return env.Scene.FindOrCreateMaterial(inst.Material)
	}
}

// resolve looks up a product path, logging when it is missing.
func resolve(env *Env, path string, t asset.Type) asset.Id {
	id, err := env.Catalog.GetAssetIdByPath(path, t)
	if err != nil {
		env.Log.Error("cannot resolve asset", "path", path, "err", err)
	}
	return id
}
