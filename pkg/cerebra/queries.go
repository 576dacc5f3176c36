// ABOUTME: GraphQL documents used by the SDK facade
// ABOUTME: All operations take structured variables, never string interpolation
package cerebra

const studiesQuery = `
	query ($limit: Int!, $offset: Int!, $searchTerm: String) {
		studies(limit: $limit, offset: $offset, searchTerm: $searchTerm) {
			id
			name
			patient {
				id
				user {
					fullName
				}
			}
		}
	}`

const studyMetadataQuery = `
	query ($id: String!) {
		study(id: $id) {
			id
			name
			patient {
				id
				user {
					fullName
				}
			}
			channelGroups {
				id
				name
				sampleRate
				samplesPerRecord
				recordsPerChunk
				chunkPeriod
				sampleEncoding
				compression
				signalMin
				signalMax
				units
				exponent
				segments(fromTime: 1.0, toTime: 9000000000000) {
					id
					startTime
					duration
				}
				channels {
					id
					name
				}
			}
		}
	}`

const segmentURLsQuery = `
	query ($segmentIds: [String!]!) {
		studyChannelGroupSegments(segmentIds: $segmentIds) {
			id
			baseDataChunkUrl
		}
	}`

const labelsQuery = `
	query ($id: String!, $labelGroupId: String!, $limit: Int!, $offset: Int!, $fromTime: Float!, $toTime: Float!) {
		study(id: $id) {
			id
			name
			labelGroup(labelGroupId: $labelGroupId) {
				id
				name
				labelType
				description
				labels(limit: $limit, offset: $offset, fromTime: $fromTime, toTime: $toTime) {
					id
					note
					startTime
					duration
					timezone
					createdBy {
						fullName
					}
					createdAt
					updatedAt
					tags {
						id
						tagType {
							id
							value
							category {
								id
								name
								description
							}
						}
					}
				}
			}
		}
	}`

const addLabelsMutation = `
	mutation ($groupId: String!, $labels: [LabelInput!]!) {
		addLabelsToLabelGroup(groupId: $groupId, labels: $labels) {
			id
		}
	}`

const addLabelGroupMutation = `
	mutation ($studyId: String!, $name: String!, $description: String, $labelType: String) {
		addLabelGroupToStudy(studyId: $studyId, name: $name, description: $description, labelType: $labelType) {
			id
		}
	}`

const removeLabelGroupMutation = `
	mutation ($groupId: String!) {
		removeLabelGroupFromStudy(groupId: $groupId)
	}`

const labelAddedSubscription = `
	subscription ($studyId: String!) {
		labelAdded(studyId: $studyId) {
			id
			note
			startTime
			duration
			timezone
			labelGroup {
				id
				name
			}
		}
	}`
