package mockapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ga4gh/compliance-harness/apimodel"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/slices"
)

func (s *Service) searchReferenceSets(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchReferenceSetsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	items := filter(s.snapshot().ReferenceSets, func(v ldvalue.Value) bool {
		return matchesAny(req.MD5Checksums, stringProp(v, "md5checksum")) &&
			intersects(req.Accessions, v.GetByKey("sourceAccessions")) &&
			(req.AssemblyID == "" || req.AssemblyID == stringProp(v, "assemblyId"))
	})
	writePage(w, "referenceSets", items, req.Paging)
}

func (s *Service) getReferenceSet(w http.ResponseWriter, r *http.Request) {
	s.serveByID(w, r, "reference set", s.snapshot().ReferenceSets)
}

func (s *Service) searchReferences(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchReferencesRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	items := filter(s.snapshot().References, func(v ldvalue.Value) bool {
		return (req.ReferenceSetID == "" || req.ReferenceSetID == stringProp(v, "referenceSetId")) &&
			matchesAny(req.MD5Checksums, stringProp(v, "md5checksum")) &&
			intersects(req.Accessions, v.GetByKey("sourceAccessions"))
	})
	writePage(w, "references", items, req.Paging)
}

func (s *Service) getReference(w http.ResponseWriter, r *http.Request) {
	s.serveByID(w, r, "reference", s.snapshot().References)
}

func (s *Service) getReferenceBases(w http.ResponseWriter, r *http.Request) {
	data := s.snapshot()
	id := mux.Vars(r)["id"]
	if _, ok := findByID(data.References, id); !ok {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "reference not found: "+id)
		return
	}
	var window BasesWindow
	for _, b := range data.Bases {
		if b.ReferenceID == id {
			window = b
		}
	}

	query := r.URL.Query()
	start, err := int64Param(query.Get("start"), window.Offset)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid start: "+err.Error())
		return
	}
	end, err := int64Param(query.Get("end"), window.end())
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid end: "+err.Error())
		return
	}
	if start > end || start < window.Offset || end > window.end() {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRange,
			fmt.Sprintf("bases %d-%d of reference %s are not available", start, end, id))
		return
	}
	writeJSON(w, http.StatusOK, ldvalue.ObjectBuild().
		Set("offset", ldvalue.String(strconv.FormatInt(start, 10))).
		Set("sequence", ldvalue.String(window.Sequence[start-window.Offset:end-window.Offset])).
		Set(apimodel.NextPageTokenProperty, ldvalue.Null()).
		Build())
}

func (s *Service) searchReadGroupSets(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchReadGroupSetsRequest
	if !decodeRequest(w, r, &req) || !requireIDs(w, "datasetIds", req.DatasetIDs) {
		return
	}
	items := filter(s.snapshot().ReadGroupSets, func(v ldvalue.Value) bool {
		return slices.Contains(req.DatasetIDs, stringProp(v, "datasetId")) &&
			(req.Name == "" || req.Name == stringProp(v, "name"))
	})
	writePage(w, "readGroupSets", items, req.Paging)
}

func (s *Service) searchReads(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchReadsRequest
	if !decodeRequest(w, r, &req) || !requireIDs(w, "readGroupIds", req.ReadGroupIDs) ||
		!validRange(w, req.Start, req.End) {
		return
	}
	data := s.snapshot()
	referenceName := req.ReferenceName
	if req.ReferenceID != "" {
		ref, ok := findByID(data.References, req.ReferenceID)
		if !ok {
			writeError(w, http.StatusNotFound, ErrorCodeNotFound, "reference not found: "+req.ReferenceID)
			return
		}
		referenceName = stringProp(ref, "name")
	}
	items := filter(data.Alignments, func(v ldvalue.Value) bool {
		position := v.GetByKey("alignment").GetByKey("position")
		alignedStart, ok := longProp(position, "position")
		alignedEnd := alignedStart + int64(len(stringProp(v, "alignedSequence")))
		return ok && slices.Contains(req.ReadGroupIDs, stringProp(v, "readGroupId")) &&
			(referenceName == "" || referenceName == stringProp(position, "referenceName")) &&
			alignedStart < req.End && alignedEnd > req.Start
	})
	writePage(w, "alignments", items, req.Paging)
}

func (s *Service) searchVariantSets(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchVariantSetsRequest
	if !decodeRequest(w, r, &req) || !requireIDs(w, "datasetIds", req.DatasetIDs) {
		return
	}
	items := filter(s.snapshot().VariantSets, func(v ldvalue.Value) bool {
		return slices.Contains(req.DatasetIDs, stringProp(v, "datasetId"))
	})
	writePage(w, "variantSets", items, req.Paging)
}

func (s *Service) searchVariants(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchVariantsRequest
	if !decodeRequest(w, r, &req) || !requireIDs(w, "variantSetIds", req.VariantSetIDs) ||
		!validRange(w, req.Start, req.End) {
		return
	}
	items := filter(s.snapshot().Variants, func(v ldvalue.Value) bool {
		start, ok1 := longProp(v, "start")
		end, ok2 := longProp(v, "end")
		return ok1 && ok2 && slices.Contains(req.VariantSetIDs, stringProp(v, "variantSetId")) &&
			(req.ReferenceName == "" || req.ReferenceName == stringProp(v, "referenceName")) &&
			(req.VariantName == "" || intersects([]string{req.VariantName}, v.GetByKey("names"))) &&
			start < req.End && end > req.Start
	})
	if len(req.CallSetIDs) != 0 {
		for i, v := range items {
			calls := filter(valuesOf(v.GetByKey("calls")), func(c ldvalue.Value) bool {
				return slices.Contains(req.CallSetIDs, stringProp(c, "callSetId"))
			})
			items[i] = withProperty(v, "calls", ldvalue.ArrayOf(calls...))
		}
	}
	writePage(w, "variants", items, req.Paging)
}

func (s *Service) searchCallSets(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchCallSetsRequest
	if !decodeRequest(w, r, &req) || !requireIDs(w, "variantSetIds", req.VariantSetIDs) {
		return
	}
	items := filter(s.snapshot().CallSets, func(v ldvalue.Value) bool {
		return intersects(req.VariantSetIDs, v.GetByKey("variantSetIds")) &&
			(req.Name == "" || req.Name == stringProp(v, "name"))
	})
	writePage(w, "callSets", items, req.Paging)
}

func (s *Service) searchReadsets(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchReadsetsRequest
	if !decodeRequest(w, r, &req) || !requireIDs(w, "datasetIds", req.DatasetIDs) {
		return
	}
	items := filter(s.snapshot().Readsets, func(v ldvalue.Value) bool {
		return slices.Contains(req.DatasetIDs, stringProp(v, "datasetId")) &&
			(req.Name == "" || req.Name == stringProp(v, "name"))
	})
	writePage(w, "readsets", items, req.Paging)
}

// searchReadsV01 selects reads that overlap an inclusive range of the named sequence.
func (s *Service) searchReadsV01(w http.ResponseWriter, r *http.Request) {
	var req apimodel.SearchReadsV01Request
	if !decodeRequest(w, r, &req) || !requireIDs(w, "readsetIds", req.ReadsetIDs) ||
		!validRange(w, req.SequenceStart, req.SequenceEnd) {
		return
	}
	items := filter(s.snapshot().Reads, func(v ldvalue.Value) bool {
		start, ok := longProp(v, "position")
		end := start + int64(len(stringProp(v, "alignedBases")))
		return ok && slices.Contains(req.ReadsetIDs, stringProp(v, "readsetId")) &&
			(req.SequenceName == "" || req.SequenceName == stringProp(v, "referenceSequenceName")) &&
			start <= req.SequenceEnd && end > req.SequenceStart
	})
	writePage(w, "reads", items, req.Paging)
}

func (s *Service) serveByID(w http.ResponseWriter, r *http.Request, kind string, items []ldvalue.Value) {
	id := mux.Vars(r)["id"]
	item, ok := findByID(items, id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, kind+" not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func requireIDs(w http.ResponseWriter, property string, ids []string) bool {
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, property+" must not be empty")
		return false
	}
	return true
}

func validRange(w http.ResponseWriter, start, end int64) bool {
	if start < 0 || start > end {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRange, fmt.Sprintf("invalid range %d-%d", start, end))
		return false
	}
	return true
}

func int64Param(s string, defaultValue int64) (int64, error) {
	if s == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
