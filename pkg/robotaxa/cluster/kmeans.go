package cluster

import (
	"math"
	"math/rand"
)

// maxIterations bounds Lloyd's algorithm; convergence usually arrives much
// earlier on corpora of this size.
const maxIterations = 100

// kmeans partitions the vectors into k clusters with Lloyd's algorithm.
// The first centroid is drawn from a seeded source and the rest greedily
// pick the point farthest from the centroids so far, so the same
// (vectors, k, seed) always produces the same labels. Clusters that empty
// out are reseeded to the point farthest from its current centroid.
func kmeans(vectors [][]float64, k int, seed int64) ([]int, [][]float64) {
	n := len(vectors)
	if n == 0 || k < 1 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := initialCentroids(vectors, k, rng)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, vec := range vectors {
			best := nearestCentroid(vec, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, len(vectors[0]))
		}
		for i, vec := range vectors {
			counts[labels[i]]++
			for d, val := range vec {
				sums[labels[i]][d] += val
			}
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				centroids[c] = farthestPoint(vectors, labels, centroids)
				changed = true
				continue
			}
			for d := range sums[c] {
				sums[c][d] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}

		if !changed {
			break
		}
	}

	return labels, centroids
}

func initialCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rng.Intn(len(vectors))
	centroids = append(centroids, append([]float64(nil), vectors[first]...))

	for len(centroids) < k {
		bestIdx := 0
		bestDist := -1.0
		for i, vec := range vectors {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(vec, c); sq < d {
					d = sq
				}
			}
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		centroids = append(centroids, append([]float64(nil), vectors[bestIdx]...))
	}
	return centroids
}

func nearestCentroid(vec []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(vec, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// farthestPoint returns a copy of the vector farthest from its assigned
// centroid, used to reseed an empty cluster.
func farthestPoint(vectors [][]float64, labels []int, centroids [][]float64) []float64 {
	bestIdx := 0
	bestDist := -1.0
	for i, vec := range vectors {
		if d := squaredDistance(vec, centroids[labels[i]]); d > bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return append([]float64(nil), vectors[bestIdx]...)
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
