package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-hash-mcp/internal/dcthash"
	"github.com/ironsheep/image-hash-mcp/internal/hasher"
	"github.com/ironsheep/image-hash-mcp/internal/imaging"
	"github.com/ironsheep/image-hash-mcp/internal/store"
)

// errIndexDisabled is returned by the index tools when no index file is
// configured.
var errIndexDisabled = errors.New("hash index is disabled: set IMAGE_HASH_MCP_DB_PATH or pass --db")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_hash", "index_search").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	log.Debug("tool succeeded")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	case "image_hash":
		return s.handleImageHash(args)
	case "image_hash_batch":
		return s.handleImageHashBatch(ctx, args)

	case "hash_distance":
		return s.handleHashDistance(args)
	case "hash_similar":
		return s.handleHashSimilar(args)

	case "image_compare":
		return s.handleImageCompare(args)
	case "image_compare_regions":
		return s.handleImageCompareRegions(args)

	case "index_add":
		return s.handleIndexAdd(args)
	case "index_search":
		return s.handleIndexSearch(args)
	case "index_remove":
		return s.handleIndexRemove(args)
	case "index_list":
		return s.handleIndexList(args)
	case "index_duplicates":
		return s.handleIndexDuplicates(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// hasherFor resolves optional algorithm and grayscale arguments against the
// server defaults.
func (s *Server) hasherFor(algorithm, grayscale string) (hasher.Hasher, error) {
	alg, err := hasher.ParseAlgorithm(algorithm)
	if err != nil {
		return hasher.Hasher{}, err
	}
	mode := s.cfg.Grayscale
	if grayscale != "" {
		if mode, err = imaging.ParseGrayscaleMode(grayscale); err != nil {
			return hasher.Hasher{}, err
		}
	}
	return hasher.Hasher{Algorithm: alg, Grayscale: mode}, nil
}

// threshold returns t, or the configured default when t is zero.
func (s *Server) threshold(t int) (int, error) {
	if t == 0 {
		return s.cfg.Threshold, nil
	}
	if t < 1 || t > dcthash.Bits+1 {
		return 0, fmt.Errorf("threshold must be between 1 and %d, got %d", dcthash.Bits+1, t)
	}
	return t, nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Hashing ===

type imageHashArgs struct {
	Path        string          `json:"path"`
	Algorithm   string          `json:"algorithm"`
	Grayscale   string          `json:"grayscale"`
	Region      *imaging.Region `json:"region"`
	NamedRegion string          `json:"named_region"`
}

type imageHashResult struct {
	Path      string           `json:"path"`
	Algorithm hasher.Algorithm `json:"algorithm"`
	Hash      dcthash.Hash     `json:"hash"`
	Bits      int              `json:"bits"`
	Region    *imaging.Region  `json:"region,omitempty"`
}

func (s *Server) handleImageHash(args json.RawMessage) (interface{}, error) {
	var a imageHashArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region != nil && a.NamedRegion != "" {
		return nil, errors.New("region and named_region are mutually exclusive")
	}
	h, err := s.hasherFor(a.Algorithm, a.Grayscale)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region := a.Region
	if a.NamedRegion != "" {
		b := img.Bounds()
		r, err := imaging.NamedRegion(b.Dx(), b.Dy(), a.NamedRegion)
		if err != nil {
			return nil, err
		}
		region = &r
	}
	if region != nil {
		if img, err = imaging.CropRegion(img, *region); err != nil {
			return nil, err
		}
	}

	res, err := h.HashImage(img)
	if err != nil {
		return nil, err
	}
	return imageHashResult{
		Path:      a.Path,
		Algorithm: res.Algorithm,
		Hash:      res.Hash,
		Bits:      res.Bits,
		Region:    region,
	}, nil
}

type imageHashBatchArgs struct {
	Paths     []string `json:"paths"`
	Algorithm string   `json:"algorithm"`
	Grayscale string   `json:"grayscale"`
}

type imageHashBatchResult struct {
	Results   []hasher.FileResult `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

func (s *Server) handleImageHashBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageHashBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errors.New("paths must not be empty")
	}
	h, err := s.hasherFor(a.Algorithm, a.Grayscale)
	if err != nil {
		return nil, err
	}

	results := h.HashFiles(ctx, s.cache, a.Paths, s.cfg.Workers)
	out := imageHashBatchResult{Results: results}
	for _, r := range results {
		if r.Error != "" {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	s.log.WithFields(logrus.Fields{
		"succeeded": out.Succeeded,
		"failed":    out.Failed,
	}).Debug("batch hashed")
	return out, nil
}

// === Hash Comparison ===

type hashPairArgs struct {
	Hash1     dcthash.Hash `json:"hash1"`
	Hash2     dcthash.Hash `json:"hash2"`
	Threshold int          `json:"threshold"`
}

type hashDistanceResult struct {
	Distance    int `json:"distance"`
	MaxDistance int `json:"max_distance"`
}

func (s *Server) handleHashDistance(args json.RawMessage) (interface{}, error) {
	var a hashPairArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := dcthash.Distance(a.Hash1, a.Hash2)
	if err != nil {
		return nil, err
	}
	return hashDistanceResult{Distance: d, MaxDistance: dcthash.Bits}, nil
}

type hashSimilarResult struct {
	Similar   bool `json:"similar"`
	Distance  int  `json:"distance"`
	Threshold int  `json:"threshold"`
}

func (s *Server) handleHashSimilar(args json.RawMessage) (interface{}, error) {
	var a hashPairArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}
	d, err := dcthash.Distance(a.Hash1, a.Hash2)
	if err != nil {
		return nil, err
	}
	return hashSimilarResult{Similar: d < threshold, Distance: d, Threshold: threshold}, nil
}

// === Image Comparison ===

type imageCompareArgs struct {
	Path1     string `json:"path1"`
	Path2     string `json:"path2"`
	Algorithm string `json:"algorithm"`
	Grayscale string `json:"grayscale"`
	Threshold int    `json:"threshold"`
}

type compareResult struct {
	Algorithm hasher.Algorithm `json:"algorithm"`
	Hash1     dcthash.Hash     `json:"hash1"`
	Hash2     dcthash.Hash     `json:"hash2"`
	Distance  int              `json:"distance"`
	Threshold int              `json:"threshold"`
	Similar   bool             `json:"similar"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	h, err := s.hasherFor(a.Algorithm, a.Grayscale)
	if err != nil {
		return nil, err
	}
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}

	r1, err := h.HashFile(s.cache, a.Path1)
	if err != nil {
		return nil, fmt.Errorf("path1: %w", err)
	}
	r2, err := h.HashFile(s.cache, a.Path2)
	if err != nil {
		return nil, fmt.Errorf("path2: %w", err)
	}
	return compare(r1, r2, threshold)
}

type imageCompareRegionsArgs struct {
	Path      string         `json:"path"`
	Region1   imaging.Region `json:"region1"`
	Region2   imaging.Region `json:"region2"`
	Algorithm string         `json:"algorithm"`
	Grayscale string         `json:"grayscale"`
	Threshold int            `json:"threshold"`
}

func (s *Server) handleImageCompareRegions(args json.RawMessage) (interface{}, error) {
	var a imageCompareRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	h, err := s.hasherFor(a.Algorithm, a.Grayscale)
	if err != nil {
		return nil, err
	}
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	r1, err := hashRegion(h, img, a.Region1)
	if err != nil {
		return nil, fmt.Errorf("region1: %w", err)
	}
	r2, err := hashRegion(h, img, a.Region2)
	if err != nil {
		return nil, fmt.Errorf("region2: %w", err)
	}
	return compare(r1, r2, threshold)
}

func hashRegion(h hasher.Hasher, img image.Image, r imaging.Region) (hasher.Result, error) {
	cropped, err := imaging.CropRegion(img, r)
	if err != nil {
		return hasher.Result{}, err
	}
	return h.HashImage(cropped)
}

func compare(r1, r2 hasher.Result, threshold int) (compareResult, error) {
	d, err := dcthash.Distance(r1.Hash, r2.Hash)
	if err != nil {
		return compareResult{}, err
	}
	return compareResult{
		Algorithm: r1.Algorithm,
		Hash1:     r1.Hash,
		Hash2:     r2.Hash,
		Distance:  d,
		Threshold: threshold,
		Similar:   d < threshold,
	}, nil
}

// === Hash Index ===

type indexAddArgs struct {
	Path      string `json:"path"`
	Algorithm string `json:"algorithm"`
}

func (s *Server) handleIndexAdd(args json.RawMessage) (interface{}, error) {
	if s.index == nil {
		return nil, errIndexDisabled
	}
	var a indexAddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	h, err := s.hasherFor(a.Algorithm, "")
	if err != nil {
		return nil, err
	}

	path := filepath.Clean(a.Path)
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := h.HashImage(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	rec, err := s.index.Put(store.Record{
		Path:      path,
		Algorithm: string(res.Algorithm),
		Hash:      res.Hash,
		Width:     b.Dx(),
		Height:    b.Dy(),
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"id": rec.ID, "path": rec.Path}).Info("indexed image")
	return rec, nil
}

type indexSearchArgs struct {
	Path      string       `json:"path"`
	Hash      dcthash.Hash `json:"hash"`
	Algorithm string       `json:"algorithm"`
	Threshold int          `json:"threshold"`
	Limit     int          `json:"limit"`
}

type indexSearchResult struct {
	Query     dcthash.Hash     `json:"query"`
	Algorithm hasher.Algorithm `json:"algorithm"`
	Threshold int              `json:"threshold"`
	Matches   []store.Match    `json:"matches"`
}

func (s *Server) handleIndexSearch(args json.RawMessage) (interface{}, error) {
	if s.index == nil {
		return nil, errIndexDisabled
	}
	var a indexSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if (a.Path == "") == (a.Hash == "") {
		return nil, errors.New("exactly one of path or hash is required")
	}
	h, err := s.hasherFor(a.Algorithm, "")
	if err != nil {
		return nil, err
	}
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}

	query := a.Hash
	if a.Path != "" {
		res, err := h.HashFile(s.cache, filepath.Clean(a.Path))
		if err != nil {
			return nil, err
		}
		query = res.Hash
	}

	matches, err := s.index.FindSimilar(query, string(h.Algorithm), threshold, a.Limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []store.Match{}
	}
	return indexSearchResult{
		Query:     query,
		Algorithm: h.Algorithm,
		Threshold: threshold,
		Matches:   matches,
	}, nil
}

type indexRemoveArgs struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type indexRemoveResult struct {
	Removed string `json:"removed"`
	Path    string `json:"path"`
}

func (s *Server) handleIndexRemove(args json.RawMessage) (interface{}, error) {
	if s.index == nil {
		return nil, errIndexDisabled
	}
	var a indexRemoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if (a.ID == "") == (a.Path == "") {
		return nil, errors.New("exactly one of id or path is required")
	}

	var (
		rec store.Record
		err error
	)
	if a.ID != "" {
		rec, err = s.index.Get(a.ID)
	} else {
		rec, err = s.index.GetByPath(filepath.Clean(a.Path))
	}
	if err != nil {
		return nil, err
	}
	if err := s.index.Delete(rec.ID); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"id": rec.ID, "path": rec.Path}).Info("removed image from index")
	return indexRemoveResult{Removed: rec.ID, Path: rec.Path}, nil
}

type indexListArgs struct {
	Algorithm string `json:"algorithm"`
}

type indexListResult struct {
	Count   int            `json:"count"`
	Records []store.Record `json:"records"`
}

func (s *Server) handleIndexList(args json.RawMessage) (interface{}, error) {
	if s.index == nil {
		return nil, errIndexDisabled
	}
	var a indexListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Algorithm != "" {
		if _, err := hasher.ParseAlgorithm(a.Algorithm); err != nil {
			return nil, err
		}
	}

	records, err := s.index.List(a.Algorithm)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []store.Record{}
	}
	return indexListResult{Count: len(records), Records: records}, nil
}

type indexDuplicatesArgs struct {
	Algorithm string `json:"algorithm"`
	Threshold int    `json:"threshold"`
}

type indexDuplicatesResult struct {
	Algorithm  hasher.Algorithm `json:"algorithm"`
	Threshold  int              `json:"threshold"`
	GroupCount int              `json:"group_count"`
	Groups     [][]store.Record `json:"groups"`
}

func (s *Server) handleIndexDuplicates(args json.RawMessage) (interface{}, error) {
	if s.index == nil {
		return nil, errIndexDisabled
	}
	var a indexDuplicatesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	alg, err := hasher.ParseAlgorithm(a.Algorithm)
	if err != nil {
		return nil, err
	}
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}

	groups, err := s.index.Duplicates(string(alg), threshold)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = [][]store.Record{}
	}
	return indexDuplicatesResult{
		Algorithm:  alg,
		Threshold:  threshold,
		GroupCount: len(groups),
		Groups:     groups,
	}, nil
}
